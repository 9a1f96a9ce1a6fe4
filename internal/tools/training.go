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

// RecordTrainingTool stores a training enrollment or completion.
type RecordTrainingTool struct {
	store store.Store
}

func NewRecordTrainingTool(s store.Store) *RecordTrainingTool { return &RecordTrainingTool{store: s} }

func (t *RecordTrainingTool) Name() string { return "record_training" }
func (t *RecordTrainingTool) Description() string {
	return "Record a training program enrollment or completion for an employee."
}

func (t *RecordTrainingTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"program": {"type": "string", "description": "Training program name"},
			"status": {"type": "string", "description": "enrolled, in_progress or completed"},
			"completion_date": {"type": "string", "description": "Completion date in YYYY-MM-DD format, if completed"},
			"score": {"type": "integer", "description": "Score out of 100, if completed"}
		},
		"required": ["employee_name", "program", "status"]
	}`)
}

func (t *RecordTrainingTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName   string `json:"employee_name"`
		Program        string `json:"program"`
		Status         string `json:"status"`
		CompletionDate string `json:"completion_date"`
		Score          *int   `json:"score"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.Program) == "" {
		return errResult("program is required"), nil
	}

	var completed *time.Time
	if params.CompletionDate != "" {
		when, err := time.Parse(leaveDateLayout, params.CompletionDate)
		if err != nil {
			return errResult(fmt.Sprintf("'%s' is not a valid date; use the YYYY-MM-DD format", params.CompletionDate)), nil
		}
		completed = &when
	}
	if params.Score != nil && (*params.Score < 0 || *params.Score > 100) {
		return errResult("score must be between 0 and 100"), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	rec, err := t.store.Training().CreateRecord(ctx, &model.TrainingRecord{
		EmployeeID:     emp.ID,
		Program:        params.Program,
		Status:         params.Status,
		CompletionDate: completed,
		Score:          params.Score,
	})
	if err != nil {
		return errResult("could not save the training record: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf("Training record #%d saved: %s is %s in '%s'.",
		rec.ID, emp.Name, rec.Status, rec.Program)), nil
}

// TrainingHistoryTool lists an employee's training records.
type TrainingHistoryTool struct {
	store store.Store
}

func NewTrainingHistoryTool(s store.Store) *TrainingHistoryTool {
	return &TrainingHistoryTool{store: s}
}

func (t *TrainingHistoryTool) Name() string { return "get_training_history" }
func (t *TrainingHistoryTool) Description() string {
	return "List the training programs an employee has taken or is enrolled in."
}

func (t *TrainingHistoryTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"}
		},
		"required": ["employee_name"]
	}`)
}

func (t *TrainingHistoryTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
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

	recs, err := t.store.Training().ListRecords(ctx, emp.ID)
	if err != nil {
		return errResult("could not read training records: " + err.Error()), nil
	}
	if len(recs) == 0 {
		return textResult(fmt.Sprintf("%s has no training records.", emp.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Training history for %s:\n", emp.Name)
	for _, r := range recs {
		line := fmt.Sprintf("- %s: %s", r.Program, r.Status)
		if r.CompletionDate != nil {
			line += " on " + r.CompletionDate.Format(leaveDateLayout)
		}
		if r.Score != nil {
			line += fmt.Sprintf(" (score %d)", *r.Score)
		}
		b.WriteString(line + "\n")
	}
	return textResult(b.String()), nil
}

// ScheduleAssessmentTool books a skills assessment.
type ScheduleAssessmentTool struct {
	store store.Store
}

func NewScheduleAssessmentTool(s store.Store) *ScheduleAssessmentTool {
	return &ScheduleAssessmentTool{store: s}
}

func (t *ScheduleAssessmentTool) Name() string { return "schedule_skills_assessment" }
func (t *ScheduleAssessmentTool) Description() string {
	return "Schedule a skills assessment for an employee."
}

func (t *ScheduleAssessmentTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {"type": "string", "description": "Name of the employee"},
			"assessment_type": {"type": "string", "description": "e.g. technical, language, leadership"},
			"date": {"type": "string", "description": "Assessment date in YYYY-MM-DD format"},
			"assessor": {"type": "string", "description": "Who runs the assessment"}
		},
		"required": ["employee_name", "assessment_type", "date"]
	}`)
}

func (t *ScheduleAssessmentTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName   string `json:"employee_name"`
		AssessmentType string `json:"assessment_type"`
		Date           string `json:"date"`
		Assessor       string `json:"assessor"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	when, err := time.Parse(leaveDateLayout, params.Date)
	if err != nil {
		return errResult(fmt.Sprintf("'%s' is not a valid date; use the YYYY-MM-DD format", params.Date)), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	asmt := &model.SkillsAssessment{
		EmployeeID:     emp.ID,
		AssessmentType: params.AssessmentType,
		Date:           when,
	}
	if params.Assessor != "" {
		asmt.Assessor = &params.Assessor
	}
	created, err := t.store.Training().CreateAssessment(ctx, asmt)
	if err != nil {
		return errResult("could not schedule the assessment: " + err.Error()), nil
	}
	return textResult(fmt.Sprintf("%s assessment #%d scheduled for %s on %s.",
		created.AssessmentType, created.ID, emp.Name, when.Format(leaveDateLayout))), nil
}
