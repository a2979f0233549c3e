// Package postgres implements collection.Remote on top of a Postgres JSONB
// document table. Every record type shares one table, partitioned by
// collection name, so adding an entity type needs no schema change.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staffdesk/staffdesk/internal/collection"
	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/query"
)

// Querier is the subset of pgxpool.Pool the adapter uses. pgxmock satisfies
// it too, which keeps the tests off a live database.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Collection adapts one named document collection to collection.Remote.
type Collection[T collection.Entity[T]] struct {
	db   Querier
	name string
	now  func() time.Time
}

func New[T collection.Entity[T]](db Querier, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name, now: time.Now}
}

var opSQL = map[query.Op]string{
	query.OpEq:  "=",
	query.OpLt:  "<",
	query.OpLte: "<=",
	query.OpGt:  ">",
	query.OpGte: ">=",
}

func (c *Collection[T]) Create(ctx context.Context, fields T) (T, error) {
	var zero T
	now := c.now()
	doc := fields.WithMeta(models.Meta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now})

	body, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: encode document: %w", collection.ErrRemoteWrite, err)
	}
	_, err = c.db.Exec(ctx, `
		INSERT INTO documents (collection, id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.name, doc.GetMeta().ID, body, now, now)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	return doc, nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	var body []byte
	err := c.db.QueryRow(ctx, `
		SELECT doc FROM documents WHERE collection = $1 AND id = $2
	`, c.name, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("get %s: %w", id, collection.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	return decode[T](body)
}

func (c *Collection[T]) GetAll(ctx context.Context, q query.Query) ([]T, error) {
	sql, args := c.buildSelect(q, "", 0)
	return c.queryDocs(ctx, sql, args)
}

func (c *Collection[T]) GetPage(ctx context.Context, q query.Query, cursor string, pageSize int) (collection.Page[T], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	// one extra row decides hasMore without a second round trip
	sql, args := c.buildSelect(q, cursor, pageSize+1)
	docs, err := c.queryDocs(ctx, sql, args)
	if err != nil {
		return collection.Page[T]{}, err
	}

	page := collection.Page[T]{Items: docs}
	if len(docs) > pageSize {
		page.Items = docs[:pageSize]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(fieldValue(last, orderFieldOf(q)), last.GetMeta().ID)
	}
	return page, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	meta := doc.GetMeta()
	meta.ID = id
	meta.UpdatedAt = c.now()
	doc = doc.WithMeta(meta)

	body, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: encode document: %w", collection.ErrRemoteWrite, err)
	}
	tag, err := c.db.Exec(ctx, `
		UPDATE documents SET doc = $3, updated_at = $4
		WHERE collection = $1 AND id = $2
	`, c.name, id, body, meta.UpdatedAt)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return zero, fmt.Errorf("update %s: %w", id, collection.ErrNotFound)
	}
	return doc, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	tag, err := c.db.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, c.name, id)
	if err != nil {
		return fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, collection.ErrNotFound)
	}
	return nil
}

func orderFieldOf(q query.Query) string {
	if q.OrderField == "" {
		return "createdAt"
	}
	return q.OrderField
}

// buildSelect translates a query description into SQL over the JSONB doc.
// Ordering always tiebreaks on id so keyset cursors stay stable; comparisons
// are text comparisons over doc->>field, which is exact for equality and
// correct for RFC 3339 timestamps.
func (c *Collection[T]) buildSelect(q query.Query, cursor string, limit int) (string, []any) {
	args := []any{c.name}
	where := []string{"collection = $1"}

	for _, f := range q.Filters {
		args = append(args, f.Field, stringify(f.Value))
		where = append(where, fmt.Sprintf("doc->>$%d %s $%d", len(args)-1, opSQL[f.Op], len(args)))
	}

	orderField := orderFieldOf(q)
	dir, cmp := "ASC", ">"
	if q.OrderField == "" || q.Dir == query.Descending {
		dir, cmp = "DESC", "<"
	}

	args = append(args, orderField)
	orderArg := len(args)

	if cursor != "" {
		if cur, err := decodeCursor(cursor); err == nil {
			args = append(args, cur.Value, cur.ID)
			where = append(where, fmt.Sprintf("(doc->>$%d, id) %s ($%d, $%d)", orderArg, cmp, len(args)-1, len(args)))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT doc FROM documents WHERE %s", strings.Join(where, " AND "))
	fmt.Fprintf(&sb, " ORDER BY doc->>$%d %s, id %s", orderArg, dir, dir)
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

func (c *Collection[T]) queryDocs(ctx context.Context, sql string, args []any) ([]T, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
		}
		doc, err := decode[T](body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", collection.ErrRemoteWrite, err)
	}
	return out, nil
}

func decode[T any](body []byte) (T, error) {
	var doc T
	if err := json.Unmarshal(body, &doc); err != nil {
		return doc, fmt.Errorf("%w: decode document: %w", collection.ErrRemoteWrite, err)
	}
	return doc, nil
}

// fieldValue reads a named field off the doc through its JSON form, matching
// what doc->>field yields on the server.
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
