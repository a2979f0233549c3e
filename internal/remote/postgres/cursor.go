package postgres

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// pageCursor is what hides behind the opaque cursor string: the order-by
// value and id of the last row already served.
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
