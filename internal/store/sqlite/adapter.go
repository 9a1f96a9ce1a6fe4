package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
)

// New opens (or creates) a SQLite database file and applies migrations.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return &sqliteStore{db: db}, nil
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Sessions() store.Sessions       { return &sessions{db: s.db} }
func (s *sqliteStore) Messages() store.Messages       { return &messages{db: s.db} }
func (s *sqliteStore) Employees() store.Employees     { return &employees{db: s.db} }
func (s *sqliteStore) Attendance() store.Attendance   { return &attendance{db: s.db} }
func (s *sqliteStore) Leaves() store.Leaves           { return &leaves{db: s.db} }
func (s *sqliteStore) Performance() store.Performance { return &performance{db: s.db} }
func (s *sqliteStore) Training() store.Training       { return &training{db: s.db} }
func (s *sqliteStore) Queries() store.Queries         { return &queries{db: s.db} }

func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                   { return s.db.Close() }

// --- Sessions ---

type sessions struct{ db *sql.DB }

func (s *sessions) Create(ctx context.Context, rec *model.ConversationRecord) (*model.ConversationRecord, error) {
	now := time.Now().UTC()
	keyPoints, _ := json.Marshal(emptyIfNilSlice(rec.KeyPoints))
	prefs, _ := json.Marshal(emptyIfNilMap(rec.Preferences))
	window, _ := json.Marshal(emptyIfNilWindow(rec.ContextWindow))

	// Insert-if-absent: the primary key on session_id guarantees at most one
	// record even under concurrent first-message races.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_sessions
			(session_id, user_id, summary, key_points, preferences, context_window, creation_time)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(session_id) DO NOTHING`,
		rec.SessionID, rec.UserID, rec.Summary, string(keyPoints), string(prefs), string(window), now)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, rec.SessionID)
}

func (s *sessions) Get(ctx context.Context, sessionID string) (*model.ConversationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, summary, key_points, preferences, context_window, creation_time, last_update_time
		FROM conversation_sessions WHERE session_id = ?`, sessionID)
	return scanSession(row)
}

func (s *sessions) List(ctx context.Context, limit int) ([]*model.ConversationRecord, error) {
	q := `SELECT session_id, user_id, summary, key_points, preferences, context_window, creation_time, last_update_time
		FROM conversation_sessions ORDER BY creation_time DESC, session_id DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.ConversationRecord
	for rows.Next() {
		rec, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sessions) UpdateContextWindow(ctx context.Context, sessionID string, window []model.ContextMessage) error {
	data, _ := json.Marshal(emptyIfNilWindow(window))
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversation_sessions SET context_window = ?, last_update_time = ? WHERE session_id = ?`,
		string(data), time.Now().UTC(), sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *sessions) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversation_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *sessions) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversation_sessions`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *sessions) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	// Records that were never updated carry a NULL last_update_time and are
	// deliberately not eligible for age-based cleanup.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversation_sessions WHERE last_update_time IS NOT NULL AND last_update_time < ?`,
		cutoff.UTC())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func scanSession(row *sql.Row) (*model.ConversationRecord, error) {
	var rec model.ConversationRecord
	var keyPoints, prefs, window sql.NullString
	err := row.Scan(&rec.SessionID, &rec.UserID, &rec.Summary, &keyPoints, &prefs, &window, &rec.CreationTime, &rec.LastUpdateTime)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	decodeSessionJSON(&rec, keyPoints, prefs, window)
	return &rec, nil
}

func scanSessionRow(rows *sql.Rows) (*model.ConversationRecord, error) {
	var rec model.ConversationRecord
	var keyPoints, prefs, window sql.NullString
	if err := rows.Scan(&rec.SessionID, &rec.UserID, &rec.Summary, &keyPoints, &prefs, &window, &rec.CreationTime, &rec.LastUpdateTime); err != nil {
		return nil, err
	}
	decodeSessionJSON(&rec, keyPoints, prefs, window)
	return &rec, nil
}

func decodeSessionJSON(rec *model.ConversationRecord, keyPoints, prefs, window sql.NullString) {
	rec.KeyPoints = []string{}
	rec.Preferences = map[string]string{}
	rec.ContextWindow = []model.ContextMessage{}
	if keyPoints.Valid {
		_ = json.Unmarshal([]byte(keyPoints.String), &rec.KeyPoints)
	}
	if prefs.Valid {
		_ = json.Unmarshal([]byte(prefs.String), &rec.Preferences)
	}
	if window.Valid {
		_ = json.Unmarshal([]byte(window.String), &rec.ContextWindow)
	}
}

func emptyIfNilSlice(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func emptyIfNilMap(v map[string]string) map[string]string {
	if v == nil {
		return map[string]string{}
	}
	return v
}

func emptyIfNilWindow(v []model.ContextMessage) []model.ContextMessage {
	if v == nil {
		return []model.ContextMessage{}
	}
	return v
}

// --- Messages ---

type messages struct{ db *sql.DB }

func (m *messages) Create(ctx context.Context, msg *model.MemoryMessage) (*model.MemoryMessage, error) {
	now := time.Now().UTC()
	meta, _ := json.Marshal(msg.Metadata)
	res, err := m.db.ExecContext(ctx,
		`INSERT INTO memory_messages (session_id, role, content, metadata, creation_time) VALUES (?,?,?,?,?)`,
		msg.SessionID, msg.Role, msg.Content, string(meta), now)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *msg
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (m *messages) ListRecent(ctx context.Context, sessionID string, limit int) ([]*model.MemoryMessage, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, metadata, creation_time FROM memory_messages
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (m *messages) List(ctx context.Context, sessionID string, limit int) ([]*model.MemoryMessage, error) {
	q := `SELECT id, session_id, role, content, metadata, creation_time FROM memory_messages
		WHERE session_id = ? ORDER BY id ASC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := m.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*model.MemoryMessage, error) {
	defer rows.Close()
	var out []*model.MemoryMessage
	for rows.Next() {
		var msg model.MemoryMessage
		var meta sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &meta, &msg.CreationTime); err != nil {
			return nil, err
		}
		if meta.Valid {
			_ = json.Unmarshal([]byte(meta.String), &msg.Metadata)
		}
		out = append(out, &msg)
	}
	return out, rows.Err()
}

// --- Employees ---

type employees struct{ db *sql.DB }

func (e *employees) GetByName(ctx context.Context, name string) (*model.Employee, error) {
	row := e.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, department_id, phone, address, active
		FROM employees WHERE name LIKE '%' || ? || '%' LIMIT 1`, name)
	var emp model.Employee
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.DepartmentID, &emp.Phone, &emp.Address, &emp.Active)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (e *employees) List(ctx context.Context) ([]*model.Employee, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, name, email, role, department_id, phone, address, active FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Employee
	for rows.Next() {
		var emp model.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.DepartmentID, &emp.Phone, &emp.Address, &emp.Active); err != nil {
			return nil, err
		}
		out = append(out, &emp)
	}
	return out, rows.Err()
}

func (e *employees) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (e *employees) DepartmentName(ctx context.Context, departmentID int64) (string, error) {
	var name string
	err := e.db.QueryRowContext(ctx, `SELECT name FROM departments WHERE id = ?`, departmentID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", model.ErrNotFound
	}
	return name, err
}

func (e *employees) CountActive(ctx context.Context) (int, error) {
	var n int
	err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE active = 1`).Scan(&n)
	return n, err
}

// --- Attendance ---

type attendance struct{ db *sql.DB }

func (a *attendance) ListByEmployee(ctx context.Context, employeeID int64, since time.Time) ([]*model.Attendance, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, employee_id, attendance_date, status FROM attendances
		WHERE employee_id = ? AND attendance_date >= ? ORDER BY attendance_date DESC`,
		employeeID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Attendance
	for rows.Next() {
		var att model.Attendance
		if err := rows.Scan(&att.ID, &att.EmployeeID, &att.Date, &att.Status); err != nil {
			return nil, err
		}
		out = append(out, &att)
	}
	return out, rows.Err()
}

func (a *attendance) CountByStatus(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM attendances WHERE attendance_date >= ? GROUP BY status`,
		since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// --- Leaves ---

type leaves struct{ db *sql.DB }

func (l *leaves) CreateRequest(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	status := req.Status
	if status == "" {
		status = "pending"
	}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO leave_requests (employee_id, leave_date, reason, status) VALUES (?,?,?,?)`,
		req.EmployeeID, req.Date.UTC(), req.Reason, status)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *req
	out.ID = id
	out.Status = status
	return &out, nil
}

func (l *leaves) ListRequests(ctx context.Context, employeeID int64) ([]*model.LeaveRequest, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_date, reason, status FROM leave_requests
		WHERE employee_id = ? ORDER BY leave_date DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.LeaveRequest
	for rows.Next() {
		var lr model.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.EmployeeID, &lr.Date, &lr.Reason, &lr.Status); err != nil {
			return nil, err
		}
		out = append(out, &lr)
	}
	return out, rows.Err()
}

func (l *leaves) GetBalance(ctx context.Context, employeeID int64, year int) (*model.LeaveBalance, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT employee_id, year, total_days, days_used FROM leave_balances WHERE employee_id = ? AND year = ?`,
		employeeID, year)
	var b model.LeaveBalance
	err := row.Scan(&b.EmployeeID, &b.Year, &b.TotalDays, &b.DaysUsed)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (l *leaves) CountPending(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'`).Scan(&n)
	return n, err
}

// --- Performance ---

type performance struct{ db *sql.DB }

func (p *performance) CreateGoal(ctx context.Context, g *model.PerformanceGoal) (*model.PerformanceGoal, error) {
	now := time.Now().UTC()
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO performance_goals (employee_id, title, description, target_date, priority, progress, created_at)
		VALUES (?,?,?,?,?,0,?)`,
		g.EmployeeID, g.Title, g.Description, g.TargetDate.UTC(), g.Priority, now)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *g
	out.ID = id
	out.Progress = 0
	out.CreatedAt = now
	return &out, nil
}

func (p *performance) UpdateGoalProgress(ctx context.Context, employeeID int64, title string, progress int, notes string) (*model.PerformanceGoal, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE performance_goals SET progress = ?, notes = ?
		WHERE employee_id = ? AND title LIKE '%' || ? || '%'`,
		progress, notes, employeeID, title)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	row := p.db.QueryRowContext(ctx, `
		SELECT id, employee_id, title, description, target_date, priority, progress, notes, created_at
		FROM performance_goals WHERE employee_id = ? AND title LIKE '%' || ? || '%' LIMIT 1`,
		employeeID, title)
	return scanGoal(row)
}

func (p *performance) ListGoals(ctx context.Context, employeeID int64) ([]*model.PerformanceGoal, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, employee_id, title, description, target_date, priority, progress, notes, created_at
		FROM performance_goals WHERE employee_id = ? ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.PerformanceGoal
	for rows.Next() {
		var g model.PerformanceGoal
		if err := rows.Scan(&g.ID, &g.EmployeeID, &g.Title, &g.Description, &g.TargetDate, &g.Priority, &g.Progress, &g.Notes, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func scanGoal(row *sql.Row) (*model.PerformanceGoal, error) {
	var g model.PerformanceGoal
	err := row.Scan(&g.ID, &g.EmployeeID, &g.Title, &g.Description, &g.TargetDate, &g.Priority, &g.Progress, &g.Notes, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *performance) CreateReview(ctx context.Context, r *model.PerformanceReview) (*model.PerformanceReview, error) {
	status := r.Status
	if status == "" {
		status = "scheduled"
	}
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO performance_reviews (employee_id, review_date, review_type, reviewer, status)
		VALUES (?,?,?,?,?)`,
		r.EmployeeID, r.ReviewDate.UTC(), r.ReviewType, r.Reviewer, status)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *r
	out.ID = id
	out.Status = status
	return &out, nil
}

func (p *performance) CreateFeedback(ctx context.Context, f *model.FeedbackEntry) (*model.FeedbackEntry, error) {
	now := time.Now().UTC()
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO feedback_entries (employee_id, feedback_from, feedback_text, rating, created_at)
		VALUES (?,?,?,?,?)`,
		f.EmployeeID, f.From, f.Text, f.Rating, now)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *f
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (p *performance) ListFeedback(ctx context.Context, employeeID int64) ([]*model.FeedbackEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, employee_id, feedback_from, feedback_text, rating, created_at
		FROM feedback_entries WHERE employee_id = ? ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.FeedbackEntry
	for rows.Next() {
		var f model.FeedbackEntry
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.From, &f.Text, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// --- Training ---

type training struct{ db *sql.DB }

func (t *training) CreateRecord(ctx context.Context, r *model.TrainingRecord) (*model.TrainingRecord, error) {
	res, err := t.db.ExecContext(ctx, `
		INSERT INTO training_records (employee_id, program, status, completion_date, score)
		VALUES (?,?,?,?,?)`,
		r.EmployeeID, r.Program, r.Status, r.CompletionDate, r.Score)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *r
	out.ID = id
	return &out, nil
}

func (t *training) ListRecords(ctx context.Context, employeeID int64) ([]*model.TrainingRecord, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, employee_id, program, status, completion_date, score
		FROM training_records WHERE employee_id = ? ORDER BY id DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.TrainingRecord
	for rows.Next() {
		var r model.TrainingRecord
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Program, &r.Status, &r.CompletionDate, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (t *training) CreateAssessment(ctx context.Context, a *model.SkillsAssessment) (*model.SkillsAssessment, error) {
	status := a.Status
	if status == "" {
		status = "scheduled"
	}
	res, err := t.db.ExecContext(ctx, `
		INSERT INTO skills_assessments (employee_id, assessment_type, assessment_date, assessor, status)
		VALUES (?,?,?,?,?)`,
		a.EmployeeID, a.AssessmentType, a.Date.UTC(), a.Assessor, status)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	out := *a
	out.ID = id
	out.Status = status
	return &out, nil
}

// --- Raw read-only queries ---

type queries struct{ db *sql.DB }

func (q *queries) Execute(ctx context.Context, query string) (*model.QueryResult, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &model.QueryResult{Columns: cols}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rowMap := make(map[string]interface{}, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rowMap[c] = string(b)
			} else {
				rowMap[c] = vals[i]
			}
		}
		out.Rows = append(out.Rows, rowMap)
	}
	return out, rows.Err()
}

func (q *queries) SchemaDescription(ctx context.Context) (string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	desc := ""
	for _, table := range tables {
		// table names come from sqlite_master, not user input
		colRows, err := q.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
		if err != nil {
			return "", err
		}
		var cols []string
		for colRows.Next() {
			var cid int
			var name, ctype string
			var notNull, pk int
			var dflt sql.NullString
			if err := colRows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
				colRows.Close()
				return "", err
			}
			cols = append(cols, fmt.Sprintf("%s(%s)", name, ctype))
		}
		colRows.Close()
		if desc != "" {
			desc += "\n"
		}
		desc += fmt.Sprintf("Table '%s': %s", table, strings.Join(cols, ", "))
	}
	return desc, nil
}
