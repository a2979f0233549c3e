package console

import (
	"context"
	"fmt"
	"time"

	"github.com/staffdesk/staffdesk/internal/models"
)

const dateLayout = "2006-01-02"

func formatClient(c models.Client) string {
	return fmt.Sprintf("%-12s  %-24s  %-28s  %-10s", shortID(c.ID), c.Name, c.Email, c.Status)
}

func formatTeam(t models.Team) string {
	return fmt.Sprintf("%-12s  %-24s  %s", shortID(t.ID), t.Name, t.Description)
}

func formatEmployee(e models.Employee) string {
	return fmt.Sprintf("%-12s  %-24s  %-20s  %-10s", shortID(e.ID), e.Name, e.Position, e.Status)
}

func formatTask(t models.Task) string {
	due := ""
	if !t.DueDate.IsZero() {
		due = t.DueDate.Format(dateLayout)
	}
	return fmt.Sprintf("%-12s  %-32s  %-12s  %-8s  %s", shortID(t.ID), t.Title, t.Status, t.Priority, due)
}

func formatAttendance(a models.AttendanceRecord) string {
	return fmt.Sprintf("%-12s  %-12s  %-10s  %s", shortID(a.ID), a.EmployeeID, a.Date, a.Status)
}

func formatLeave(l models.LeaveRequest) string {
	return fmt.Sprintf("%-12s  %-12s  %-10s  %-10s  %s .. %s",
		shortID(l.ID), l.EmployeeID, l.Type, l.Status,
		l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout))
}

// shortID keeps listings readable; full ids still work in commands because
// matching happens against the stored value.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// add runs the prompt flow for the active section and creates the record
// through its store.
func (a *App) add(ctx context.Context) {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	var err error
	switch a.active {
	case "clients":
		err = a.addClient(opCtx)
	case "teams":
		err = a.addTeam(opCtx)
	case "employees":
		err = a.addEmployee(opCtx)
	case "tasks":
		err = a.addTask(opCtx)
	case "attendance":
		err = a.addAttendance(opCtx)
	case "leave":
		err = a.addLeave(opCtx)
	}
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Created.")
}

func (a *App) addClient(ctx context.Context) error {
	var c models.Client
	var err error
	if c.Name, err = promptLine(a.reader, "Name", a.out); err != nil {
		return err
	}
	if c.Email, err = promptLine(a.reader, "Email", a.out); err != nil {
		return err
	}
	if c.Phone, err = promptLine(a.reader, "Phone", a.out); err != nil {
		return err
	}
	if c.Company, err = promptLine(a.reader, "Company", a.out); err != nil {
		return err
	}
	status, err := promptChoice(a.reader, "Status", a.out,
		string(models.ClientProspect), string(models.ClientActive), string(models.ClientInactive))
	if err != nil {
		return err
	}
	c.Status = models.ClientStatus(status)
	_, err = a.clients.Create(ctx, c)
	return err
}

func (a *App) addTeam(ctx context.Context) error {
	var t models.Team
	var err error
	if t.Name, err = promptLine(a.reader, "Name", a.out); err != nil {
		return err
	}
	if t.Description, err = promptLine(a.reader, "Description", a.out); err != nil {
		return err
	}
	if t.LeadID, err = promptLine(a.reader, "Lead employee id (optional)", a.out); err != nil {
		return err
	}
	_, err = a.teams.Create(ctx, t)
	return err
}

func (a *App) addEmployee(ctx context.Context) error {
	var e models.Employee
	var err error
	if e.Name, err = promptLine(a.reader, "Name", a.out); err != nil {
		return err
	}
	if e.Email, err = promptLine(a.reader, "Email", a.out); err != nil {
		return err
	}
	if e.Position, err = promptLine(a.reader, "Position", a.out); err != nil {
		return err
	}
	if e.TeamID, err = promptLine(a.reader, "Team id (optional)", a.out); err != nil {
		return err
	}
	e.Status = models.EmployeeActive
	_, err = a.employees.Create(ctx, e)
	return err
}

func (a *App) addTask(ctx context.Context) error {
	var t models.Task
	var err error
	if t.Title, err = promptLine(a.reader, "Title", a.out); err != nil {
		return err
	}
	if t.Description, err = promptLine(a.reader, "Description", a.out); err != nil {
		return err
	}
	priority, err := promptChoice(a.reader, "Priority", a.out,
		string(models.PriorityMedium), string(models.PriorityLow), string(models.PriorityHigh))
	if err != nil {
		return err
	}
	t.Priority = models.TaskPriority(priority)
	if t.AssigneeID, err = promptLine(a.reader, "Assignee id (optional)", a.out); err != nil {
		return err
	}
	due, err := promptLine(a.reader, "Due date YYYY-MM-DD (optional)", a.out)
	if err != nil {
		return err
	}
	if due != "" {
		if t.DueDate, err = time.Parse(dateLayout, due); err != nil {
			return fmt.Errorf("bad due date: %w", err)
		}
	}
	t.Status = models.TaskOpen
	_, err = a.tasks.Create(ctx, t)
	return err
}

func (a *App) addAttendance(ctx context.Context) error {
	var r models.AttendanceRecord
	var err error
	if r.EmployeeID, err = promptLine(a.reader, "Employee id", a.out); err != nil {
		return err
	}
	if r.Date, err = promptLine(a.reader, "Date YYYY-MM-DD", a.out); err != nil {
		return err
	}
	if _, err = time.Parse(dateLayout, r.Date); err != nil {
		return fmt.Errorf("bad date: %w", err)
	}
	status, err := promptChoice(a.reader, "Status", a.out,
		string(models.AttendancePresent), string(models.AttendanceRemote), string(models.AttendanceAbsent))
	if err != nil {
		return err
	}
	r.Status = models.AttendanceStatus(status)
	if r.Status != models.AttendanceAbsent {
		r.CheckIn = time.Now()
	}
	_, err = a.attendance.Create(ctx, r)
	return err
}

func (a *App) addLeave(ctx context.Context) error {
	var l models.LeaveRequest
	var err error
	if l.EmployeeID, err = promptLine(a.reader, "Employee id", a.out); err != nil {
		return err
	}
	kind, err := promptChoice(a.reader, "Type", a.out,
		string(models.LeaveVacation), string(models.LeaveSick), string(models.LeaveUnpaid))
	if err != nil {
		return err
	}
	l.Type = models.LeaveType(kind)
	start, err := promptLine(a.reader, "Start date YYYY-MM-DD", a.out)
	if err != nil {
		return err
	}
	if l.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return fmt.Errorf("bad start date: %w", err)
	}
	end, err := promptLine(a.reader, "End date YYYY-MM-DD", a.out)
	if err != nil {
		return err
	}
	if l.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return fmt.Errorf("bad end date: %w", err)
	}
	if l.Reason, err = promptLine(a.reader, "Reason", a.out); err != nil {
		return err
	}
	l.Status = models.LeavePending
	_, err = a.leave.Create(ctx, l)
	return err
}

// complete marks a task done. Only meaningful in the tasks section.
func (a *App) complete(ctx context.Context, id string) {
	if a.active != "tasks" {
		fmt.Fprintln(a.out, "'done' works in the tasks section")
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	_, err := a.tasks.Update(opCtx, id, func(t models.Task) models.Task {
		t.Status = models.TaskDone
		return t
	})
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Done.")
}

// decide approves or rejects a leave request. Only meaningful in the leave
// section.
func (a *App) decide(ctx context.Context, id string, approve bool) {
	if a.active != "leave" {
		fmt.Fprintln(a.out, "'approve' and 'reject' work in the leave section")
		return
	}
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()
	status := models.LeaveRejected
	if approve {
		status = models.LeaveApproved
	}
	_, err := a.leave.Update(opCtx, id, func(l models.LeaveRequest) models.LeaveRequest {
		l.Status = status
		return l
	})
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Request %s.\n", status)
}
