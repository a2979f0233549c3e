package query

import "strings"

// Search filters items to those with at least one field containing term,
// case-insensitively. fields extracts the searchable values from an item.
// An empty or whitespace-only term means no filter: the input is returned
// as-is.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}
	term = strings.ToLower(term)

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), term) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}
