package console

import (
	"context"
	"fmt"
	"io"

	"github.com/staffdesk/staffdesk/internal/collection"
	"github.com/staffdesk/staffdesk/internal/query"
)

// section is the verb surface the REPL drives regardless of record type.
type section interface {
	list(ctx context.Context, w io.Writer)
	search(ctx context.Context, term string, w io.Writer)
	more(ctx context.Context, w io.Writer)
	refresh(ctx context.Context, w io.Writer)
	remove(ctx context.Context, id string, w io.Writer)
	show(ctx context.Context, id string, w io.Writer)
	itemCount() int
	syncing() bool
	lastErr() error
	close()
}

// collectionSection binds one Store to the section verbs, with per-type
// rendering and searchable fields plugged in.
type collectionSection[T collection.Entity[T]] struct {
	store    *collection.Store[T]
	fields   func(T) []string
	format   func(T) string
	pageSize int
}

func newSection[T collection.Entity[T]](
	store *collection.Store[T],
	pageSize int,
	fields func(T) []string,
	format func(T) string,
) *collectionSection[T] {
	return &collectionSection[T]{store: store, fields: fields, format: format, pageSize: pageSize}
}

func (s *collectionSection[T]) list(_ context.Context, w io.Writer) {
	st := s.store.State()
	if len(st.Items) == 0 {
		fmt.Fprintln(w, "(empty, try 'refresh')")
		return
	}
	for _, item := range st.Items {
		fmt.Fprintln(w, s.format(item))
	}
	if st.HasMore {
		fmt.Fprintln(w, "... more available, type 'more'")
	}
}

func (s *collectionSection[T]) search(_ context.Context, term string, w io.Writer) {
	hits := query.Search(s.store.State().Items, term, s.fields)
	if len(hits) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	for _, item := range hits {
		fmt.Fprintln(w, s.format(item))
	}
}

func (s *collectionSection[T]) more(ctx context.Context, w io.Writer) {
	if err := s.store.LoadMore(ctx); err != nil {
		fmt.Fprintln(w, "Error:", err)
	}
}

func (s *collectionSection[T]) refresh(ctx context.Context, w io.Writer) {
	q := query.New().WithPageSize(s.pageSize)
	if err := s.store.Refresh(ctx, q); err != nil {
		fmt.Fprintln(w, "Error:", err)
	}
}

func (s *collectionSection[T]) remove(ctx context.Context, id string, w io.Writer) {
	if err := s.store.Delete(ctx, id); err != nil {
		fmt.Fprintln(w, "Error:", err)
	}
}

func (s *collectionSection[T]) show(ctx context.Context, id string, w io.Writer) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	fmt.Fprintln(w, s.format(item))
}

func (s *collectionSection[T]) itemCount() int { return len(s.store.State().Items) }

func (s *collectionSection[T]) syncing() bool {
	st := s.store.State()
	return st.Loading || st.Pending > 0
}

func (s *collectionSection[T]) lastErr() error { return s.store.State().Err }

func (s *collectionSection[T]) close() { s.store.Close() }
