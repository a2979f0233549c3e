package models

// EmployeeStatus classifies an employee record.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeOnLeave  EmployeeStatus = "on_leave"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Employee is a staff member belonging to a team.
type Employee struct {
	Meta
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Position string         `json:"position"`
	TeamID   string         `json:"teamId"`
	Status   EmployeeStatus `json:"status"`
}

func (e Employee) WithMeta(m Meta) Employee {
	e.Meta = m
	return e
}

func (e Employee) Validate() error {
	if e.Name == "" {
		return ErrNameRequired
	}
	if e.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

func (e Employee) SearchFields() []string {
	return []string{e.Name, e.Email, e.Position}
}
