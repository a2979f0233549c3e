// Package models defines the admin-console record types (clients, teams,
// employees, tasks, attendance, leave) kept in remote collections.
package models

import (
	"errors"
	"time"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrEmployeeRequired = errors.New("employee id is required")
	ErrDateRequired     = errors.New("date is required")
	ErrBadDateRange     = errors.New("end date is before start date")
)

// Meta carries the identity and timestamps shared by every record.
// The remote store assigns ID on a confirmed create; until then a record
// may hold a temporary, locally generated id.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID returns the record identifier (real or temporary).
func (m Meta) GetID() string { return m.ID }

// GetMeta returns the meta itself; promoted through embedding it lets
// generic code read identity and timestamps off any record.
func (m Meta) GetMeta() Meta { return m }
