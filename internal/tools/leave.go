package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
)

const leaveDateLayout = "2006-01-02"

// RequestLeaveTool files a leave request for a named employee.
type RequestLeaveTool struct {
	store store.Store
}

func NewRequestLeaveTool(s store.Store) *RequestLeaveTool { return &RequestLeaveTool{store: s} }

func (t *RequestLeaveTool) Name() string { return "request_leave" }
func (t *RequestLeaveTool) Description() string {
	return "File a leave request for an employee on a given date."
}

func (t *RequestLeaveTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee requesting leave"},
			"date": {"type": "string", "description": "Leave date in YYYY-MM-DD format"},
			"reason": {"type": "string", "description": "Reason for the leave"}
		},
		"required": ["employee_name", "date"]
	}`)
}

func (t *RequestLeaveTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		Date         string `json:"date"`
		Reason       string `json:"reason"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.EmployeeName) == "" {
		return errResult("employee_name is required"), nil
	}

	when, err := time.Parse(leaveDateLayout, params.Date)
	if err != nil {
		return errResult(fmt.Sprintf("'%s' is not a valid date; use the YYYY-MM-DD format", params.Date)), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found, so no leave was filed.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	req, err := t.store.Leaves().CreateRequest(ctx, &model.LeaveRequest{
		EmployeeID: emp.ID,
		Date:       when,
		Reason:     params.Reason,
	})
	if err != nil {
		return errResult("could not save the leave request: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf(
		"Leave request #%d filed for %s on %s (status: %s).",
		req.ID, emp.Name, when.Format(leaveDateLayout), req.Status)), nil
}

// LeaveStatusTool lists an employee's leave requests.
type LeaveStatusTool struct {
	store store.Store
}

func NewLeaveStatusTool(s store.Store) *LeaveStatusTool { return &LeaveStatusTool{store: s} }

func (t *LeaveStatusTool) Name() string { return "check_leave_status" }
func (t *LeaveStatusTool) Description() string {
	return "Show the leave requests filed by an employee and their statuses."
}

func (t *LeaveStatusTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"}
		},
		"required": ["employee_name"]
	}`)
}

func (t *LeaveStatusTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	reqs, err := t.store.Leaves().ListRequests(ctx, emp.ID)
	if err != nil {
		return errResult("could not read leave requests: " + err.Error()), nil
	}
	if len(reqs) == 0 {
		return textResult(fmt.Sprintf("%s has no leave requests on record.", emp.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Leave requests for %s:\n", emp.Name)
	for _, r := range reqs {
		reason := r.Reason
		if reason == "" {
			reason = "no reason given"
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Date.Format(leaveDateLayout), r.Status, reason)
	}
	return textResult(b.String()), nil
}

// LeaveBalanceTool reports remaining leave days for the current year.
type LeaveBalanceTool struct {
	store store.Store
	now   func() time.Time
}

func NewLeaveBalanceTool(s store.Store) *LeaveBalanceTool {
	return &LeaveBalanceTool{store: s, now: time.Now}
}

func (t *LeaveBalanceTool) Name() string { return "check_leave_balance" }
func (t *LeaveBalanceTool) Description() string {
	return "Report how many leave days an employee has left this year."
}

func (t *LeaveBalanceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"}
		},
		"required": ["employee_name"]
	}`)
}

func (t *LeaveBalanceTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	year := t.now().Year()
	bal, err := t.store.Leaves().GetBalance(ctx, emp.ID, year)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No leave balance is recorded for %s in %d.", emp.Name, year)), nil
		}
		return errResult("could not read the leave balance: " + err.Error()), nil
	}
	remaining := bal.TotalDays - bal.DaysUsed
	return textResult(fmt.Sprintf(
		"%s has %d of %d leave days remaining in %d (%d used).",
		emp.Name, remaining, bal.TotalDays, year, bal.DaysUsed)), nil
}

// CompanyHolidaysTool lists the fixed company holiday calendar.
type CompanyHolidaysTool struct{}

func NewCompanyHolidaysTool() *CompanyHolidaysTool { return &CompanyHolidaysTool{} }

func (t *CompanyHolidaysTool) Name() string { return "get_company_holidays" }
func (t *CompanyHolidaysTool) Description() string {
	return "List the company holiday calendar for the year."
}
func (t *CompanyHolidaysTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *CompanyHolidaysTool) Execute(_ context.Context, _ json.RawMessage) (*Result, error) {
	holidays := []struct{ date, name string }{
		{"January 1", "New Year's Day"},
		{"May 1", "Labour Day"},
		{"December 25", "Christmas Day"},
		{"December 26", "Boxing Day"},
	}
	var b strings.Builder
	b.WriteString("Company holidays:\n")
	for _, h := range holidays {
		fmt.Fprintf(&b, "- %s: %s\n", h.date, h.name)
	}
	return textResult(b.String()), nil
}
