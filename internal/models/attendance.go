package models

import "time"

// AttendanceStatus marks how a working day was spent.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceRemote  AttendanceStatus = "remote"
)

// AttendanceRecord is one employee's check-in/check-out pair for a day.
type AttendanceRecord struct {
	Meta
	EmployeeID string           `json:"employeeId"`
	Date       string           `json:"date"` // YYYY-MM-DD
	CheckIn    time.Time        `json:"checkIn"`
	CheckOut   time.Time        `json:"checkOut"`
	Status     AttendanceStatus `json:"status"`
}

func (a AttendanceRecord) WithMeta(m Meta) AttendanceRecord {
	a.Meta = m
	return a
}

func (a AttendanceRecord) Validate() error {
	if a.EmployeeID == "" {
		return ErrEmployeeRequired
	}
	if a.Date == "" {
		return ErrDateRequired
	}
	return nil
}

func (a AttendanceRecord) SearchFields() []string {
	return []string{a.EmployeeID, a.Date}
}
