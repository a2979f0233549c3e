// Package memory implements collection.Remote with an in-process map. It is
// the console's offline backend and the reference implementation for the
// query and cursor semantics the Postgres remote mirrors.
package memory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffdesk/staffdesk/internal/collection"
	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/query"
)

// Collection is an in-memory document collection. All methods are safe for
// concurrent use.
type Collection[T collection.Entity[T]] struct {
	mu   sync.RWMutex
	docs map[string]T
	now  func() time.Time
}

func New[T collection.Entity[T]]() *Collection[T] {
	return &Collection[T]{
		docs: make(map[string]T),
		now:  time.Now,
	}
}

// Seed inserts docs as-is, keeping their meta. Intended for tests and demo
// fixtures.
func (c *Collection[T]) Seed(docs ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.docs[d.GetMeta().ID] = d
	}
}

func (c *Collection[T]) Create(_ context.Context, fields T) (T, error) {
	now := c.now()
	doc := fields.WithMeta(models.Meta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now})

	c.mu.Lock()
	c.docs[doc.GetMeta().ID] = doc
	c.mu.Unlock()
	return doc, nil
}

func (c *Collection[T]) GetByID(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	doc, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, collection.ErrNotFound)
	}
	return doc, nil
}

func (c *Collection[T]) GetAll(_ context.Context, q query.Query) ([]T, error) {
	return c.matched(q), nil
}

func (c *Collection[T]) GetPage(_ context.Context, q query.Query, cursor string, pageSize int) (collection.Page[T], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	all := c.matched(q)
	orderField, dir := orderOf(q)

	// keyset resume: find the first doc sorting strictly after the cursor
	// position, so a deleted cursor doc never re-serves the head
	start := 0
	if cursor != "" {
		if cur, err := decodeCursor(cursor); err == nil {
			start = len(all)
			for i, d := range all {
				if afterCursor(fieldValue(d, orderField), d.GetMeta().ID, cur, dir) {
					start = i
					break
				}
			}
		}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	page := collection.Page[T]{Items: all[start:end], HasMore: end < len(all)}
	if page.HasMore && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(fieldValue(last, orderField), last.GetMeta().ID)
	}
	return page, nil
}

func (c *Collection[T]) Update(_ context.Context, id string, doc T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.docs[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("update %s: %w", id, collection.ErrNotFound)
	}
	meta := prev.GetMeta()
	meta.UpdatedAt = c.now()
	doc = doc.WithMeta(meta)
	c.docs[id] = doc
	return doc, nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, collection.ErrNotFound)
	}
	delete(c.docs, id)
	return nil
}

// matched applies q's filters and ordering over a snapshot of the docs.
func (c *Collection[T]) matched(q query.Query) []T {
	c.mu.RLock()
	out := make([]T, 0, len(c.docs))
	for _, d := range c.docs {
		if matches(d, q.Filters) {
			out = append(out, d)
		}
	}
	c.mu.RUnlock()

	orderField, dir := orderOf(q)

	sort.Slice(out, func(i, j int) bool {
		vi, vj := fieldValue(out[i], orderField), fieldValue(out[j], orderField)
		if vi != vj {
			if dir == query.Descending {
				return vi > vj
			}
			return vi < vj
		}
		// deterministic tiebreak keeps cursors stable
		if dir == query.Descending {
			return out[i].GetMeta().ID > out[j].GetMeta().ID
		}
		return out[i].GetMeta().ID < out[j].GetMeta().ID
	})
	return out
}

// orderOf resolves the effective sort field and direction; the display
// convention without an explicit order is newest first.
func orderOf(q query.Query) (string, query.Direction) {
	if q.OrderField == "" {
		return "createdAt", query.Descending
	}
	return q.OrderField, q.Dir
}

// pageCursor is the order-by value and id of the last doc already served,
// the same wire shape the Postgres remote hides behind its cursors.
type pageCursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

func encodeCursor(value, id string) string {
	b, _ := json.Marshal(pageCursor{Value: value, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (pageCursor, error) {
	var cur pageCursor
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cur, fmt.Errorf("malformed cursor: %w", err)
	}
	if err := json.Unmarshal(b, &cur); err != nil {
		return cur, fmt.Errorf("malformed cursor: %w", err)
	}
	return cur, nil
}

// afterCursor reports whether a doc sorts strictly after the cursor
// position under the collection order.
func afterCursor(value, id string, cur pageCursor, dir query.Direction) bool {
	if value != cur.Value {
		if dir == query.Descending {
			return value < cur.Value
		}
		return value > cur.Value
	}
	if dir == query.Descending {
		return id < cur.ID
	}
	return id > cur.ID
}

func matches[T any](doc T, filters []query.Filter) bool {
	for _, f := range filters {
		v := fieldValue(doc, f.Field)
		want := stringify(f.Value)
		switch f.Op {
		case query.OpEq:
			if v != want {
				return false
			}
		case query.OpLt:
			if !(v < want) {
				return false
			}
		case query.OpLte:
			if !(v <= want) {
				return false
			}
		case query.OpGt:
			if !(v > want) {
				return false
			}
		case query.OpGte:
			if !(v >= want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// fieldValue reads a named field off the doc through its JSON form, so field
// names line up with the wire names the remote store indexes.
func fieldValue[T any](doc T, field string) string {
	b, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return ""
	}
	raw, ok := m[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// stringify renders a filter value the same way fieldValue renders a doc
// field, so comparisons line up for plain strings, named string types and
// time.Time alike.
func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}
