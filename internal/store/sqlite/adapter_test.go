package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
	"github.com/hrdesk/hrdesk/internal/store/storetest"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "hrdesk-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := NewWithDB(newTestDB(t))
	require.NoError(t, err)
	return s
}

func TestSQLiteConversationSuite(t *testing.T) {
	storetest.RunConversationSuite(t, newTestStore)
}

func seedHR(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO departments (id, name) VALUES (1, 'Engineering'), (2, 'People Ops')`,
		`INSERT INTO employees (id, name, email, role, department_id, active) VALUES
			(1, 'Priya Sharma', 'priya@example.com', 'Engineer', 1, 1),
			(2, 'Marcus Webb', 'marcus@example.com', 'HR Generalist', 2, 1),
			(3, 'Dana Cole', 'dana@example.com', NULL, 1, 0)`,
		`INSERT INTO attendances (employee_id, attendance_date, status) VALUES
			(1, '2026-08-03', 'present'),
			(1, '2026-08-04', 'remote'),
			(2, '2026-08-03', 'absent')`,
		`INSERT INTO leave_balances (employee_id, year, total_days, days_used) VALUES (1, 2026, 20, 4)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestEmployeesLookup(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	emp, err := s.Employees().GetByName(ctx, "priya")
	require.NoError(t, err)
	require.Equal(t, int64(1), emp.ID)
	require.Equal(t, "priya@example.com", emp.Email)

	_, err = s.Employees().GetByName(ctx, "nobody")
	require.ErrorIs(t, err, model.ErrNotFound)

	all, err := s.Employees().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	deps, err := s.Employees().ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	name, err := s.Employees().DepartmentName(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Engineering", name)

	active, err := s.Employees().CountActive(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, active)
}

func TestAttendanceQueries(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	recs, err := s.Attendance().ListByEmployee(ctx, 1, since)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "remote", recs[0].Status)

	counts, err := s.Attendance().CountByStatus(ctx, since)
	require.NoError(t, err)
	require.Equal(t, 1, counts["present"])
	require.Equal(t, 1, counts["absent"])
}

func TestLeaveLifecycle(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	req, err := s.Leaves().CreateRequest(ctx, &model.LeaveRequest{
		EmployeeID: 1,
		Date:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Reason:     "family event",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", req.Status)
	require.NotZero(t, req.ID)

	list, err := s.Leaves().ListRequests(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "family event", list[0].Reason)

	bal, err := s.Leaves().GetBalance(ctx, 1, 2026)
	require.NoError(t, err)
	require.Equal(t, 20, bal.TotalDays)
	require.Equal(t, 4, bal.DaysUsed)

	_, err = s.Leaves().GetBalance(ctx, 1, 2020)
	require.ErrorIs(t, err, model.ErrNotFound)

	pending, err := s.Leaves().CountPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
}

func TestPerformanceGoals(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	goal, err := s.Performance().CreateGoal(ctx, &model.PerformanceGoal{
		EmployeeID:  1,
		Title:       "Ship migration tooling",
		Description: "Replace the legacy import scripts",
		TargetDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Priority:    "high",
	})
	require.NoError(t, err)
	require.Equal(t, 0, goal.Progress)

	updated, err := s.Performance().UpdateGoalProgress(ctx, 1, "migration", 60, "halfway through rollout")
	require.NoError(t, err)
	require.Equal(t, 60, updated.Progress)
	require.NotNil(t, updated.Notes)

	_, err = s.Performance().UpdateGoalProgress(ctx, 1, "no such goal", 10, "")
	require.ErrorIs(t, err, model.ErrNotFound)

	goals, err := s.Performance().ListGoals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	fb, err := s.Performance().CreateFeedback(ctx, &model.FeedbackEntry{
		EmployeeID: 1,
		From:       "Marcus Webb",
		Text:       "Great cross-team communication",
		Rating:     5,
	})
	require.NoError(t, err)
	require.NotZero(t, fb.ID)

	entries, err := s.Performance().ListFeedback(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 5, entries[0].Rating)
}

func TestTrainingRecords(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	score := 92
	rec, err := s.Training().CreateRecord(ctx, &model.TrainingRecord{
		EmployeeID: 1,
		Program:    "Security Awareness",
		Status:     "completed",
		Score:      &score,
	})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	recs, err := s.Training().ListRecords(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, 92, *recs[0].Score)

	asmt, err := s.Training().CreateAssessment(ctx, &model.SkillsAssessment{
		EmployeeID:     1,
		AssessmentType: "technical",
		Date:           time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "scheduled", asmt.Status)
}

func TestRawQuerySurface(t *testing.T) {
	db := newTestDB(t)
	s, err := NewWithDB(db)
	require.NoError(t, err)
	seedHR(t, db)
	ctx := context.Background()

	res, err := s.Queries().Execute(ctx, `SELECT name, email FROM employees WHERE active = 1 ORDER BY name`)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "email"}, res.Columns)
	require.Len(t, res.Rows, 2)
	require.Equal(t, "Marcus Webb", res.Rows[0]["name"])

	schema, err := s.Queries().SchemaDescription(ctx)
	require.NoError(t, err)
	require.Contains(t, schema, "Table 'employees'")
	require.Contains(t, schema, "department_id")
}
