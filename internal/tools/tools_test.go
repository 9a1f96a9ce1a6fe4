package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/search"
	"github.com/hrdesk/hrdesk/internal/store"
	"github.com/hrdesk/hrdesk/internal/store/sqlite"
)

// fakeProvider replays scripted responses in order.
type fakeProvider struct {
	responses []*llm.Response
	calls     int
}

func (f *fakeProvider) Chat(_ context.Context, _ *llm.ChatRequest) (*llm.Response, error) {
	if f.calls >= len(f.responses) {
		return &llm.Response{Content: "no more scripted responses"}, nil
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeProvider) StreamChat(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	resp, _ := f.Chat(ctx, req)
	ch := make(chan llm.StreamEvent, 2)
	ch <- llm.StreamEvent{ContentDelta: resp.Content}
	ch <- llm.StreamEvent{Done: true}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) Name() string         { return "fake" }
func (f *fakeProvider) DefaultModel() string { return "fake-model" }

func newSeededStore(t *testing.T) (store.Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tools-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := sqlite.NewWithDB(db)
	require.NoError(t, err)

	stmts := []string{
		`INSERT INTO departments (id, name) VALUES (1, 'Engineering'), (2, 'People Ops')`,
		`INSERT INTO employees (id, name, email, role, department_id, active) VALUES
			(1, 'Priya Sharma', 'priya@example.com', 'Engineer', 1, 1),
			(2, 'Marcus Webb', 'marcus@example.com', 'HR Generalist', 2, 1)`,
		`INSERT INTO leave_balances (employee_id, year, total_days, days_used) VALUES (1, 2026, 20, 4)`,
		`INSERT INTO attendances (employee_id, attendance_date, status) VALUES
			(1, date('now', '-2 days'), 'present'),
			(2, date('now', '-2 days'), 'absent')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return s, db
}

func mustArgs(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestDatabaseQuestionToolAnswersFromRows(t *testing.T) {
	s, _ := newSeededStore(t)
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "SELECT name FROM employees WHERE active = 1 ORDER BY name"},
		{Content: "Marcus Webb and Priya Sharma are the active employees."},
	}}
	tool := NewDatabaseQuestionTool(s, provider, 256)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"question": "Who is currently active?",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, res.Output, "Marcus Webb and Priya Sharma")
	require.Equal(t, 2, provider.calls)
}

func TestDatabaseQuestionToolStripsCodeFences(t *testing.T) {
	s, _ := newSeededStore(t)
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "```sql\nSELECT COUNT(*) AS n FROM employees\n```"},
		{Content: "There are 2 employees."},
	}}
	tool := NewDatabaseQuestionTool(s, provider, 256)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"question": "How many employees are there?",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
}

func TestDatabaseQuestionToolBlocksUnsafeSQL(t *testing.T) {
	s, db := newSeededStore(t)
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "DELETE FROM employees"},
	}}
	tool := NewDatabaseQuestionTool(s, provider, 256)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"question": "Remove everyone",
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, res.Error, "read-only")
	// Exactly one model call: no silent regeneration after a rejection.
	require.Equal(t, 1, provider.calls)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestRequestLeaveDateValidation(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewRequestLeaveTool(s)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "Priya",
		"date":          "next tuesday",
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, res.Error, "YYYY-MM-DD")
}

func TestRequestLeaveUnknownEmployee(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewRequestLeaveTool(s)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "Nobody Realperson",
		"date":          "2026-09-15",
	}))
	require.NoError(t, err)
	// Unknown names are a normal answer, not an error.
	require.False(t, res.IsError)
	require.Contains(t, res.Output, "No employee matching")
}

func TestRequestLeaveFilesRequest(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewRequestLeaveTool(s)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "Priya",
		"date":          "2026-09-15",
		"reason":        "family event",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, res.Output, "Priya Sharma")
	require.Contains(t, res.Output, "pending")

	status := NewLeaveStatusTool(s)
	res, err = status.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "Priya",
	}))
	require.NoError(t, err)
	require.Contains(t, res.Output, "2026-09-15")
}

func TestLeaveBalance(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewLeaveBalanceTool(s)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "Priya",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, res.Output, "16 of 20")
}

func TestEmployeeDetails(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewEmployeeDetailsTool(s)

	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{
		"employee_name": "marcus",
	}))
	require.NoError(t, err)
	require.Contains(t, res.Output, "Marcus Webb")
	require.Contains(t, res.Output, "People Ops")
}

func TestGoalLifecycle(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	set := NewSetGoalTool(s)
	res, err := set.Execute(ctx, mustArgs(t, map[string]interface{}{
		"employee_name": "Priya",
		"title":         "Ship migration tooling",
		"target_date":   "2026-12-01",
		"priority":      "high",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	update := NewUpdateGoalProgressTool(s)
	res, err = update.Execute(ctx, mustArgs(t, map[string]interface{}{
		"employee_name": "Priya",
		"goal_title":    "migration",
		"progress":      40,
	}))
	require.NoError(t, err)
	require.Contains(t, res.Output, "40%")

	res, err = update.Execute(ctx, mustArgs(t, map[string]interface{}{
		"employee_name": "Priya",
		"goal_title":    "migration",
		"progress":      150,
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)

	list := NewListGoalsTool(s)
	res, err = list.Execute(ctx, mustArgs(t, map[string]string{"employee_name": "Priya"}))
	require.NoError(t, err)
	require.Contains(t, res.Output, "Ship migration tooling")
}

func TestDashboard(t *testing.T) {
	s, _ := newSeededStore(t)
	tool := NewDashboardTool(s)

	res, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, res.Output, "Active employees: 2")
	require.Contains(t, res.Output, "present: 1")
}

func TestRegistryDefinitions(t *testing.T) {
	s, _ := newSeededStore(t)
	reg := NewRegistry()
	reg.Register(NewListEmployeesTool(s))
	reg.Register(NewRequestLeaveTool(s))

	defs := reg.Definitions()
	require.Len(t, defs, 2)
	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
		require.NotEmpty(t, d.Parameters)
	}
	require.True(t, names["list_all_employees"])
	require.True(t, names["request_leave"])

	_, err := reg.Get("no_such_tool")
	require.Error(t, err)
}

// fakePolicyIndex is an in-memory stand-in for the vector index; Search does
// naive substring matching over title and content.
type fakePolicyIndex struct {
	docs map[string]search.PolicyHit
}

func newFakePolicyIndex() *fakePolicyIndex {
	return &fakePolicyIndex{docs: map[string]search.PolicyHit{}}
}

func (f *fakePolicyIndex) Upsert(_ context.Context, title, category, content string) error {
	f.docs[title] = search.PolicyHit{Title: title, Category: category, Content: content, Score: 1}
	return nil
}

func (f *fakePolicyIndex) Search(_ context.Context, query string, topK int) ([]search.PolicyHit, error) {
	var hits []search.PolicyHit
	for _, d := range f.docs {
		if strings.Contains(strings.ToLower(d.Title+" "+d.Content), strings.ToLower(query)) {
			hits = append(hits, d)
		}
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

func TestPolicySearchRoundTrip(t *testing.T) {
	idx := newFakePolicyIndex()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "Remote Work", "workplace", "Employees may work remotely up to three days a week."))
	require.NoError(t, idx.Upsert(ctx, "Parental Leave", "leave", "Sixteen weeks of paid parental leave."))

	tool := NewPolicySearchTool(idx)
	res, err := tool.Execute(ctx, mustArgs(t, map[string]string{"query": "remotely"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, res.Output, "**Remote Work** (workplace)")
	require.Contains(t, res.Output, "three days a week")
	require.NotContains(t, res.Output, "Parental Leave")

	// Re-ingesting a title replaces the stored passage.
	require.NoError(t, idx.Upsert(ctx, "Remote Work", "workplace", "Remote work requires manager approval."))
	res, err = tool.Execute(ctx, mustArgs(t, map[string]string{"query": "remote"}))
	require.NoError(t, err)
	require.Contains(t, res.Output, "manager approval")
	require.NotContains(t, res.Output, "three days a week")
}

func TestPolicySearchUnconfigured(t *testing.T) {
	tool := NewPolicySearchTool(nil)
	res, err := tool.Execute(context.Background(), mustArgs(t, map[string]string{"query": "leave"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, res.Error, "not configured")
}
