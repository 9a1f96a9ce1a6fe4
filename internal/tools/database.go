package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/sqlgate"
	"github.com/hrdesk/hrdesk/internal/store"
)

// DatabaseQuestionTool turns a natural-language HR question into a SELECT
// statement via the model, validates it through the read-only gate, runs it,
// and asks the model to phrase the rows as an answer. A gate rejection is a
// hard stop reported to the caller, never silently retried.
type DatabaseQuestionTool struct {
	store     store.Store
	provider  llm.Provider
	maxTokens int
}

func NewDatabaseQuestionTool(s store.Store, p llm.Provider, maxTokens int) *DatabaseQuestionTool {
	return &DatabaseQuestionTool{store: s, provider: p, maxTokens: maxTokens}
}

func (t *DatabaseQuestionTool) Name() string { return "answer_database_question" }
func (t *DatabaseQuestionTool) Description() string {
	return "Answer a question about employees, departments, attendance or leave by querying the HR database."
}

func (t *DatabaseQuestionTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"question": {
				"type": "string",
				"description": "The question to answer from the HR database"
			}
		},
		"required": ["question"]
	}`)
}

func (t *DatabaseQuestionTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.Question) == "" {
		return errResult("question is required"), nil
	}

	schema, err := t.store.Queries().SchemaDescription(ctx)
	if err != nil {
		return errResult("could not read the database schema: " + err.Error()), nil
	}

	genPrompt := fmt.Sprintf(
		"You translate HR questions into SQL.\n\nDatabase schema:\n%s\n\nQuestion: %s\n\nRespond with exactly one SELECT statement and nothing else. No explanation, no markdown.",
		schema, params.Question)
	resp, err := t.provider.Chat(ctx, &llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: genPrompt}},
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return errResult("query generation failed: " + err.Error()), nil
	}

	query := stripSQLFences(resp.Content)
	if !sqlgate.IsReadOnly(query) {
		return errResult("the generated query was rejected by the read-only safety check and was not executed"), nil
	}

	res, err := t.store.Queries().Execute(ctx, query)
	if err != nil {
		return errResult("query execution failed: " + err.Error()), nil
	}
	if len(res.Rows) == 0 {
		return textResult("No matching records were found."), nil
	}

	table := markdownTable(res)
	synthPrompt := fmt.Sprintf(
		"Question: %s\n\nQuery results:\n%s\n\nAnswer the question concisely using only these results.",
		params.Question, table)
	answer, err := t.provider.Chat(ctx, &llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: synthPrompt}},
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		// The data is already in hand, so fall back to the raw table.
		return textResult(table), nil
	}
	return textResult(answer.Content), nil
}

// stripSQLFences removes markdown code fences the model sometimes wraps
// around generated SQL.
func stripSQLFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func markdownTable(res *model.QueryResult) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(res.Columns, " | ") + " |\n")
	sep := make([]string, len(res.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = fmt.Sprintf("%v", row[col])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// ListDepartmentsTool lists every department.
type ListDepartmentsTool struct {
	store store.Store
}

func NewListDepartmentsTool(s store.Store) *ListDepartmentsTool { return &ListDepartmentsTool{store: s} }

func (t *ListDepartmentsTool) Name() string { return "list_all_departments" }
func (t *ListDepartmentsTool) Description() string {
	return "List all departments in the company."
}
func (t *ListDepartmentsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *ListDepartmentsTool) Execute(ctx context.Context, _ json.RawMessage) (*Result, error) {
	deps, err := t.store.Employees().ListDepartments(ctx)
	if err != nil {
		return errResult("could not list departments: " + err.Error()), nil
	}
	if len(deps) == 0 {
		return textResult("No departments are defined."), nil
	}
	var b strings.Builder
	b.WriteString("Departments:\n")
	for _, d := range deps {
		fmt.Fprintf(&b, "- %s\n", d.Name)
	}
	return textResult(b.String()), nil
}

// ListEmployeesTool lists all employees with department names.
type ListEmployeesTool struct {
	store store.Store
}

func NewListEmployeesTool(s store.Store) *ListEmployeesTool { return &ListEmployeesTool{store: s} }

func (t *ListEmployeesTool) Name() string { return "list_all_employees" }
func (t *ListEmployeesTool) Description() string {
	return "List all employees with their role and department."
}
func (t *ListEmployeesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *ListEmployeesTool) Execute(ctx context.Context, _ json.RawMessage) (*Result, error) {
	emps, err := t.store.Employees().List(ctx)
	if err != nil {
		return errResult("could not list employees: " + err.Error()), nil
	}
	if len(emps) == 0 {
		return textResult("No employees are on record."), nil
	}
	var b strings.Builder
	b.WriteString("Employees:\n")
	for _, e := range emps {
		role := "unassigned"
		if e.Role != nil {
			role = *e.Role
		}
		dept := "no department"
		if e.DepartmentID != nil {
			if name, err := t.store.Employees().DepartmentName(ctx, *e.DepartmentID); err == nil {
				dept = name
			}
		}
		fmt.Fprintf(&b, "- %s (%s, %s)\n", e.Name, role, dept)
	}
	return textResult(b.String()), nil
}

// EmployeeDetailsTool looks up one employee by name.
type EmployeeDetailsTool struct {
	store store.Store
}

func NewEmployeeDetailsTool(s store.Store) *EmployeeDetailsTool { return &EmployeeDetailsTool{store: s} }

func (t *EmployeeDetailsTool) Name() string { return "get_employee_details" }
func (t *EmployeeDetailsTool) Description() string {
	return "Get contact and assignment details for one employee by name."
}
func (t *EmployeeDetailsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"employee_name": {
				"type": "string",
				"description": "Full or partial employee name"
			}
		},
		"required": ["employee_name"]
	}`)
}

func (t *EmployeeDetailsTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		EmployeeName string `json:"employee_name"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.EmployeeName) == "" {
		return errResult("employee_name is required"), nil
	}

	emp, err := t.store.Employees().GetByName(ctx, params.EmployeeName)
	if err != nil {
		// An unknown name is a normal answer, not a failure.
		if errorsIsNotFound(err) {
			return textResult(fmt.Sprintf("No employee matching '%s' was found.", params.EmployeeName)), nil
		}
		return errResult("employee lookup failed: " + err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n- Email: %s\n", emp.Name, emp.Email)
	if emp.Role != nil {
		fmt.Fprintf(&b, "- Role: %s\n", *emp.Role)
	}
	if emp.DepartmentID != nil {
		if name, err := t.store.Employees().DepartmentName(ctx, *emp.DepartmentID); err == nil {
			fmt.Fprintf(&b, "- Department: %s\n", name)
		}
	}
	if emp.Phone != nil {
		fmt.Fprintf(&b, "- Phone: %s\n", *emp.Phone)
	}
	if emp.Address != nil {
		fmt.Fprintf(&b, "- Address: %s\n", *emp.Address)
	}
	if !emp.Active {
		b.WriteString("- Status: inactive\n")
	}
	return textResult(b.String()), nil
}
