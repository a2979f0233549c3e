package collection

import (
	"context"

	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/query"
)

// Entity is the contract a record type must satisfy to live in a Store.
// Records are plain values: copying one is a complete snapshot, which is
// what makes total rollback cheap.
type Entity[T any] interface {
	// GetMeta returns the record's identity and timestamps.
	GetMeta() models.Meta

	// WithMeta returns a copy of the record with its meta replaced.
	WithMeta(m models.Meta) T

	// Validate rejects records with unusable fields before any remote call.
	Validate() error
}

// Page is one slice of a paginated query result. NextCursor is opaque to
// callers and is only ever passed back to the same remote.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// Remote is the collection client a Store drives. Implementations talk to
// the actual document store; each call either fully succeeds or fully fails
// (no partial writes). Failed writes are reported wrapped in ErrRemoteWrite,
// vanished targets in ErrNotFound.
type Remote[T Entity[T]] interface {
	// Create persists a new record; the fields' meta is ignored and the
	// store-assigned identity comes back on the returned record.
	Create(ctx context.Context, fields T) (T, error)

	// GetByID fetches one record, or ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)

	// GetAll runs q without pagination and returns every match.
	GetAll(ctx context.Context, q query.Query) ([]T, error)

	// GetPage runs q resuming from cursor (empty for the first page),
	// returning at most pageSize records.
	GetPage(ctx context.Context, q query.Query, cursor string, pageSize int) (Page[T], error)

	// Update replaces the stored record (last write wins) and returns the
	// canonical version.
	Update(ctx context.Context, id string, doc T) (T, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error
}
