package models

import "time"

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick"
	LeaveUnpaid   LeaveType = "unpaid"
)

// LeaveStatus tracks a request through approval.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is an employee's request for time off.
type LeaveRequest struct {
	Meta
	EmployeeID string      `json:"employeeId"`
	Type       LeaveType   `json:"type"`
	Status     LeaveStatus `json:"status"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Reason     string      `json:"reason"`
}

func (l LeaveRequest) WithMeta(m Meta) LeaveRequest {
	l.Meta = m
	return l
}

func (l LeaveRequest) Validate() error {
	if l.EmployeeID == "" {
		return ErrEmployeeRequired
	}
	if l.EndDate.Before(l.StartDate) {
		return ErrBadDateRange
	}
	return nil
}

func (l LeaveRequest) SearchFields() []string {
	return []string{l.EmployeeID, l.Reason}
}
