// Package collection implements an optimistic, locally coherent view over a
// remote keyed document collection. Mutations land in local state before the
// remote call settles and are rolled back to the pre-mutation snapshot if it
// fails, so observers never see permanent corruption.
package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffdesk/staffdesk/internal/logging"
	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/query"
)

// TempIDPrefix marks locally generated ids for records whose create has not
// been confirmed yet. Server-assigned ids never carry it.
const TempIDPrefix = "temp-"

// NewTempID returns a fresh temporary identifier.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a temporary, unconfirmed identifier.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Kind names a pending mutation type.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// State is a read-only snapshot of a store. Items is a copy; callers must
// route all changes through the store's methods.
type State[T Entity[T]] struct {
	Items   []T
	Loading bool
	Err     error
	HasMore bool
	Pending int
}

// Store keeps an ordered in-memory list of records mirrored from a Remote,
// newest first. All operations are safe for concurrent use; operations on
// the same record id are not coordinated beyond last settlement wins, so
// callers should serialize those (e.g. disable the triggering control while
// its operation is in flight).
type Store[T Entity[T]] struct {
	remote Remote[T]
	log    logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	items     []T
	loading   bool
	err       error
	cursor    string
	hasMore   bool
	gen       uint64
	lastQuery query.Query
	pending   map[string]Kind
	subs      map[int]chan struct{}
	nextSub   int
	closed    bool
}

// New returns a store over remote. log may be nil.
func New[T Entity[T]](remote Remote[T], log logging.Logger) *Store[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Store[T]{
		remote:  remote,
		log:     log,
		now:     time.Now,
		pending: make(map[string]Kind),
		subs:    make(map[int]chan struct{}),
	}
}

// State returns a snapshot of the current items, loading flag, last error
// and pagination state.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return State[T]{
		Items:   items,
		Loading: s.loading,
		Err:     s.err,
		HasMore: s.hasMore,
		Pending: len(s.pending),
	}
}

// Subscribe registers a change listener. The channel receives a coalesced
// signal after every state change and is closed when the subscription ends,
// through the returned unregister func or through Close.
func (s *Store[T]) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.mu.Unlock()
	}
}

// Close tears the store down. In-flight mutations still settle with their
// callers but no longer touch the store's state. Subscriber channels are
// closed so their receive loops end.
func (s *Store[T]) Close() {
	s.mu.Lock()
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = make(map[int]chan struct{})
	s.mu.Unlock()
}

// notifyLocked signals every subscriber without blocking; a subscriber that
// has not drained its channel keeps its single pending signal.
func (s *Store[T]) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store[T]) indexOfLocked(id string) int {
	for i, item := range s.items {
		if item.GetMeta().ID == id {
			return i
		}
	}
	return -1
}

// Create synthesizes a record under a temporary id, prepends it immediately,
// then persists it. On success the temporary record is replaced in place by
// the confirmed one (matched by temporary id, never by content). On failure
// the temporary record is removed and the error is set and re-raised. Either
// way no temporary record from this call survives its settlement.
func (s *Store[T]) Create(ctx context.Context, fields T) (T, error) {
	var zero T
	if err := fields.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := s.now()
	tempID := NewTempID()
	optimistic := fields.WithMeta(models.Meta{ID: tempID, CreatedAt: now, UpdatedAt: now})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	s.items = append([]T{optimistic}, s.items...)
	s.pending[tempID] = KindCreate
	s.notifyLocked()
	s.mu.Unlock()

	confirmed, err := s.remote.Create(ctx, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, tempID)
	if s.closed {
		return confirmed, err
	}
	if err != nil {
		if i := s.indexOfLocked(tempID); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		wrapped := fmt.Errorf("create rolled back: %w", err)
		s.err = wrapped
		s.log.Warn(ctx, "create failed", "tempID", tempID, "err", err)
		s.notifyLocked()
		return zero, wrapped
	}
	// A refresh may have replaced items wholesale while the create was in
	// flight; then the confirmed record is already part of the new truth
	// and there is nothing to swap.
	if i := s.indexOfLocked(tempID); i >= 0 {
		s.items[i] = confirmed
	}
	s.err = nil
	s.notifyLocked()
	return confirmed, nil
}

// Update snapshots the record under id, applies patch locally, then persists
// the patched record. On failure the complete snapshot is restored (every
// field, not only the patched ones), the error is set and re-raised. On
// success the server's canonical record replaces the optimistic one.
func (s *Store[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	var zero T
	if IsTempID(id) {
		return zero, fmt.Errorf("%w: record %s is not confirmed yet", ErrValidation, id)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return zero, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	snapshot := s.items[idx]

	patched := patch(snapshot)
	if err := patched.Validate(); err != nil {
		s.mu.Unlock()
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	meta := snapshot.GetMeta()
	meta.UpdatedAt = s.now()
	patched = patched.WithMeta(meta)

	s.items[idx] = patched
	s.pending[id] = KindUpdate
	s.notifyLocked()
	s.mu.Unlock()

	confirmed, err := s.remote.Update(ctx, id, patched)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if s.closed {
		return confirmed, err
	}
	if err != nil {
		// The record may have moved while the call was in flight; restore
		// wherever it sits now.
		if i := s.indexOfLocked(id); i >= 0 {
			s.items[i] = snapshot
		}
		wrapped := fmt.Errorf("update %s rolled back: %w", id, err)
		s.err = wrapped
		s.log.Warn(ctx, "update failed", "id", id, "err", err)
		s.notifyLocked()
		return zero, wrapped
	}
	if i := s.indexOfLocked(id); i >= 0 {
		s.items[i] = confirmed
	}
	s.err = nil
	s.notifyLocked()
	return confirmed, nil
}

// Delete removes the record under id immediately and persists the delete.
// On failure the record is re-inserted at its original index, so list order
// is identical to before the call.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if IsTempID(id) {
		return fmt.Errorf("%w: record %s is not confirmed yet", ErrValidation, id)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	snapshot := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.pending[id] = KindDelete
	s.notifyLocked()
	s.mu.Unlock()

	err := s.remote.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if s.closed {
		return err
	}
	if err != nil {
		at := idx
		if at > len(s.items) {
			at = len(s.items)
		}
		s.items = append(s.items[:at], append([]T{snapshot}, s.items[at:]...)...)
		wrapped := fmt.Errorf("delete %s rolled back: %w", id, err)
		s.err = wrapped
		s.log.Warn(ctx, "delete failed", "id", id, "err", err)
		s.notifyLocked()
		return wrapped
	}
	s.err = nil
	s.notifyLocked()
	return nil
}

// Refresh replaces the items wholesale with the result of q and resets the
// pagination state. When q carries a page size the first page is fetched;
// otherwise the whole collection is. On failure the prior items stay
// untouched and only the error slot changes.
func (s *Store[T]) Refresh(ctx context.Context, q query.Query) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loading = true
	s.lastQuery = q
	s.notifyLocked()
	s.mu.Unlock()

	var (
		page Page[T]
		err  error
	)
	if q.PageSize > 0 {
		page, err = s.remote.GetPage(ctx, q, "", q.PageSize)
	} else {
		page.Items, err = s.remote.GetAll(ctx, q)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return err
	}
	s.loading = false
	if err != nil {
		wrapped := fmt.Errorf("refresh: %w", err)
		s.err = wrapped
		s.log.Warn(ctx, "refresh failed", "err", err)
		s.notifyLocked()
		return wrapped
	}
	items := make([]T, len(page.Items))
	copy(items, page.Items)
	s.items = items
	s.cursor = page.NextCursor
	s.hasMore = page.HasMore
	s.gen++
	s.err = nil
	s.notifyLocked()
	return nil
}

// LoadMore fetches the next page using the stored cursor and appends it to
// the tail of items; earlier items never move. It is a silent no-op when
// there is nothing more to load, a load is already running, or a refresh
// commits while the page is in flight; duplicate triggers and stale pages
// are absorbed the same way.
func (s *Store[T]) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.hasMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	q := s.lastQuery
	cursor := s.cursor
	gen := s.gen
	s.notifyLocked()
	s.mu.Unlock()

	page, err := s.remote.GetPage(ctx, q, cursor, q.PageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return err
	}
	s.loading = false
	// A refresh replaced the list wholesale while this page was in flight.
	// Its result is authoritative; appending the stale page would duplicate
	// records and clobber the new cursor.
	if s.gen != gen {
		s.notifyLocked()
		return nil
	}
	if err != nil {
		wrapped := fmt.Errorf("load more: %w", err)
		s.err = wrapped
		s.log.Warn(ctx, "load more failed", "err", err)
		s.notifyLocked()
		return wrapped
	}
	s.items = append(s.items, page.Items...)
	s.cursor = page.NextCursor
	s.hasMore = page.HasMore
	s.err = nil
	s.notifyLocked()
	return nil
}

// Get returns the record under id, from local state when present and from
// the remote otherwise. The remote result is not merged into items.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		var zero T
		return zero, ErrClosed
	}
	if i := s.indexOfLocked(id); i >= 0 {
		item := s.items[i]
		s.mu.Unlock()
		return item, nil
	}
	s.mu.Unlock()

	return s.remote.GetByID(ctx, id)
}
