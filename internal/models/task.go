package models

import "time"

// TaskStatus tracks a task through its lifecycle.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// TaskPriority orders tasks within a board column.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a unit of work assigned to an employee.
type Task struct {
	Meta
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  string       `json:"assigneeId"`
	DueDate     time.Time    `json:"dueDate"`
}

func (t Task) WithMeta(m Meta) Task {
	t.Meta = m
	return t
}

func (t Task) Validate() error {
	if t.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

func (t Task) SearchFields() []string {
	return []string{t.Title, t.Description}
}
