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

// SetGoalTool creates a performance goal for an employee.
type SetGoalTool struct {
	store store.Store
}

func NewSetGoalTool(s store.Store) *SetGoalTool { return &SetGoalTool{store: s} }

func (t *SetGoalTool) Name() string { return "set_performance_goal" }
func (t *SetGoalTool) Description() string {
	return "Create a performance goal for an employee with a target date and priority."
}

func (t *SetGoalTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"title": {"type": "string", "description": "Short goal title"},
			"description": {"type": "string", "description": "What achieving the goal looks like"},
			"target_date": {"type": "string", "description": "Target date in YYYY-MM-DD format"},
			"priority": {"type": "string", "description": "low, medium or high", "enum": ["low", "medium", "high"]}
		},
		"required": ["employee_name", "title", "target_date"]
	}`)
}

func (t *SetGoalTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		TargetDate   string `json:"target_date"`
		Priority     string `json:"priority"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.Title) == "" {
		return errResult("title is required"), nil
	}
	target, err := time.Parse(leaveDateLayout, params.TargetDate)
	if err != nil {
		return errResult(fmt.Sprintf("'%s' is not a valid date; use the YYYY-MM-DD format", params.TargetDate)), nil
	}
	priority := params.Priority
	if priority == "" {
		priority = "medium"
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	goal, err := t.store.Performance().CreateGoal(ctx, &model.PerformanceGoal{
		EmployeeID:  emp.ID,
		Title:       params.Title,
		Description: params.Description,
		TargetDate:  target,
		Priority:    priority,
	})
	if err != nil {
		return errResult("could not save the goal: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf(
		"Goal #%d '%s' set for %s, due %s (priority %s).",
		goal.ID, goal.Title, emp.Name, target.Format(leaveDateLayout), priority)), nil
}

// UpdateGoalProgressTool updates progress on a goal matched by title.
type UpdateGoalProgressTool struct {
	store store.Store
}

func NewUpdateGoalProgressTool(s store.Store) *UpdateGoalProgressTool {
	return &UpdateGoalProgressTool{store: s}
}

func (t *UpdateGoalProgressTool) Name() string { return "update_goal_progress" }
func (t *UpdateGoalProgressTool) Description() string {
	return "Update the completion percentage of an employee's performance goal."
}

func (t *UpdateGoalProgressTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"goal_title": {"type": "string", "description": "Full or partial goal title"},
			"progress": {"type": "integer", "description": "Completion percentage from 0 to 100"},
			"notes": {"type": "string", "description": "Optional progress notes"}
		},
		"required": ["employee_name", "goal_title", "progress"]
	}`)
}

func (t *UpdateGoalProgressTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		GoalTitle    string `json:"goal_title"`
		Progress     int    `json:"progress"`
		Notes        string `json:"notes"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if params.Progress < 0 || params.Progress > 100 {
		return errResult("progress must be between 0 and 100"), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	goal, err := t.store.Performance().UpdateGoalProgress(ctx, emp.ID, params.GoalTitle, params.Progress, params.Notes)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("%s has no goal matching '%s'.", emp.Name, params.GoalTitle)), nil
		}
		return errResult("could not update the goal: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf("Goal '%s' for %s is now at %d%%.", goal.Title, emp.Name, goal.Progress)), nil
}

// ListGoalsTool shows an employee's goals.
type ListGoalsTool struct {
	store store.Store
}

func NewListGoalsTool(s store.Store) *ListGoalsTool { return &ListGoalsTool{store: s} }

func (t *ListGoalsTool) Name() string { return "get_performance_goals" }
func (t *ListGoalsTool) Description() string {
	return "List an employee's performance goals with progress."
}

func (t *ListGoalsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"}
		},
		"required": ["employee_name"]
	}`)
}

func (t *ListGoalsTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
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

	goals, err := t.store.Performance().ListGoals(ctx, emp.ID)
	if err != nil {
		return errResult("could not read goals: " + err.Error()), nil
	}
	if len(goals) == 0 {
		return textResult(fmt.Sprintf("%s has no performance goals on record.", emp.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Goals for %s:\n", emp.Name)
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %d%% (due %s, %s priority)\n",
			g.Title, g.Progress, g.TargetDate.Format(leaveDateLayout), g.Priority)
	}
	return textResult(b.String()), nil
}

// RecordFeedbackTool stores a feedback entry about an employee.
type RecordFeedbackTool struct {
	store store.Store
}

func NewRecordFeedbackTool(s store.Store) *RecordFeedbackTool { return &RecordFeedbackTool{store: s} }

func (t *RecordFeedbackTool) Name() string { return "record_feedback" }
func (t *RecordFeedbackTool) Description() string {
	return "Record feedback about an employee with an optional 1-5 rating."
}

func (t *RecordFeedbackTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee the feedback is about"},
			"feedback_from": {"type": "string", "description": "Who the feedback is from"},
			"feedback_text": {"type": "string", "description": "The feedback itself"},
			"rating": {"type": "integer", "description": "Rating from 1 to 5"}
		},
		"required": ["employee_name", "feedback_from", "feedback_text"]
	}`)
}

func (t *RecordFeedbackTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		FeedbackFrom string `json:"feedback_from"`
		FeedbackText string `json:"feedback_text"`
		Rating       int    `json:"rating"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if params.Rating < 0 || params.Rating > 5 {
		return errResult("rating must be between 1 and 5"), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	_, err = t.store.Performance().CreateFeedback(ctx, &model.FeedbackEntry{
		EmployeeID: emp.ID,
		From:       params.FeedbackFrom,
		Text:       params.FeedbackText,
		Rating:     params.Rating,
	})
	if err != nil {
		return errResult("could not save the feedback: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf("Feedback from %s recorded for %s.", params.FeedbackFrom, emp.Name)), nil
}

// ScheduleReviewTool books a performance review.
type ScheduleReviewTool struct {
	store store.Store
}

func NewScheduleReviewTool(s store.Store) *ScheduleReviewTool { return &ScheduleReviewTool{store: s} }

func (t *ScheduleReviewTool) Name() string { return "schedule_performance_review" }
func (t *ScheduleReviewTool) Description() string {
	return "Schedule a performance review for an employee on a given date."
}

func (t *ScheduleReviewTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"review_date": {"type": "string", "description": "Review date in YYYY-MM-DD format"},
			"review_type": {"type": "string", "description": "annual, quarterly or probation"},
			"reviewer": {"type": "string", "description": "Who conducts the review"}
		},
		"required": ["employee_name", "review_date", "review_type"]
	}`)
}

func (t *ScheduleReviewTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
		ReviewDate   string `json:"review_date"`
		ReviewType   string `json:"review_type"`
		Reviewer     string `json:"reviewer"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	when, err := time.Parse(leaveDateLayout, params.ReviewDate)
	if err != nil {
		return errResult(fmt.Sprintf("'%s' is not a valid date; use the YYYY-MM-DD format", params.ReviewDate)), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	review := &model.PerformanceReview{
		EmployeeID: emp.ID,
		ReviewDate: when,
		ReviewType: params.ReviewType,
	}
	if params.Reviewer != "" {
		review.Reviewer = &params.Reviewer
	}
	created, err := t.store.Performance().CreateReview(ctx, review)
	if err != nil {
		return errResult("could not schedule the review: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf(
		"%s review #%d scheduled for %s on %s.",
		created.ReviewType, created.ID, emp.Name, when.Format(leaveDateLayout))), nil
}
