// Package query builds declarative query descriptions interpreted by remote
// collection implementations, plus a client-side substring search applied
// over whatever the remote returned.
package query

// Op is a comparison operator applied to a named field.
type Op string

const (
	OpEq  Op = "=="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Direction orders results ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Filter restricts results to records whose field compares to Value under Op.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes equality/range filters, a single order-by field with a
// direction, and an optional page size. Queries are values: builder methods
// return a copy, so the same inputs always produce the same description.
type Query struct {
	Filters    []Filter
	OrderField string
	Dir        Direction
	PageSize   int
}

// New returns an empty query.
func New() Query {
	return Query{Dir: Ascending}
}

// Where appends a filter and returns the extended query. The receiver is not
// modified; the filter slice is cloned so derived queries never alias.
func (q Query) Where(field string, op Op, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy sets the sort field and direction.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.OrderField = field
	q.Dir = dir
	return q
}

// WithPageSize sets the requested page size. Zero means the remote's default.
func (q Query) WithPageSize(n int) Query {
	q.PageSize = n
	return q
}
