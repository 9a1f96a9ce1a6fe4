package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hrdesk/hrdesk/internal/store"
)

// DashboardTool summarizes headcount, pending leave and recent attendance.
type DashboardTool struct {
	store store.Store
	now   func() time.Time
}

func NewDashboardTool(s store.Store) *DashboardTool {
	return &DashboardTool{store: s, now: time.Now}
}

func (t *DashboardTool) Name() string { return "get_hr_dashboard" }
func (t *DashboardTool) Description() string {
	return "Summarize key HR metrics: active headcount, pending leave requests and attendance over the last 30 days."
}
func (t *DashboardTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *DashboardTool) Execute(ctx context.Context, _ json.RawMessage) (*Result, error) {
	active, err := t.store.Employees().CountActive(ctx)
	if err != nil {
		return errResult("could not count employees: " + err.Error()), nil
	}
	pending, err := t.store.Leaves().CountPending(ctx)
	if err != nil {
		return errResult("could not count pending leave requests: " + err.Error()), nil
	}
	since := t.now().AddDate(0, 0, -30)
	byStatus, err := t.store.Attendance().CountByStatus(ctx, since)
	if err != nil {
		return errResult("could not read attendance counts: " + err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("HR dashboard:\n")
	fmt.Fprintf(&b, "- Active employees: %d\n", active)
	fmt.Fprintf(&b, "- Pending leave requests: %d\n", pending)
	if len(byStatus) > 0 {
		b.WriteString("- Attendance (last 30 days):\n")
		statuses := make([]string, 0, len(byStatus))
		for s := range byStatus {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Fprintf(&b, "  - %s: %d\n", s, byStatus[s])
		}
	}
	return textResult(b.String()), nil
}

// AttendanceReportTool lists one employee's attendance over a recent window.
type AttendanceReportTool struct {
	store store.Store
	now   func() time.Time
}

func NewAttendanceReportTool(s store.Store) *AttendanceReportTool {
	return &AttendanceReportTool{store: s, now: time.Now}
}

func (t *AttendanceReportTool) Name() string { return "get_attendance_report" }
func (t *AttendanceReportTool) Description() string {
	return "Show an employee's attendance records for the last N days (default 30)."
}

func (t *AttendanceReportTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"days": {"type": "integer", "description": "How many days back to look (default 30)"}
		},
		"required": ["employee_name"]
	}`)
}

func (t *AttendanceReportTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		Days         int    `json:"days"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	days := params.Days
	if days <= 0 {
		days = 30
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	since := t.now().AddDate(0, 0, -days)
	recs, err := t.store.Attendance().ListByEmployee(ctx, emp.ID, since)
	if err != nil {
		return errResult("could not read attendance: " + err.Error()), nil
	}
	if len(recs) == 0 {
		return textResult(fmt.Sprintf("%s has no attendance records in the last %d days.", emp.Name, days)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Attendance for %s (last %d days):\n", emp.Name, days)
	for _, r := range recs {
		fmt.Fprintf(&b, "- %s: %s\n", r.Date.Format(leaveDateLayout), r.Status)
	}
	return textResult(b.String()), nil
}
