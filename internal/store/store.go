package store

import (
	"context"
	"time"

	"github.com/hrdesk/hrdesk/internal/model"
)

// Store exposes persistence operations required by the memory manager and the
// HR tool layer. Implementations live under internal/store/<driver>/.
type Store interface {
	Sessions() Sessions
	Messages() Messages
	Employees() Employees
	Attendance() Attendance
	Leaves() Leaves
	Performance() Performance
	Training() Training
	Queries() Queries

	Ping(ctx context.Context) error
	Close() error
}

// Sessions manages ConversationRecord rows. Create is insert-if-absent: two
// near-simultaneous creates for the same session id yield one row.
type Sessions interface {
	Create(ctx context.Context, rec *model.ConversationRecord) (*model.ConversationRecord, error)
	Get(ctx context.Context, sessionID string) (*model.ConversationRecord, error)
	List(ctx context.Context, limit int) ([]*model.ConversationRecord, error)
	UpdateContextWindow(ctx context.Context, sessionID string, window []model.ContextMessage) error
	Delete(ctx context.Context, sessionID string) error
	DeleteAll(ctx context.Context) (int, error)
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Messages manages MemoryMessage rows. ListRecent returns newest-first by
// insertion order; List returns oldest-first.
type Messages interface {
	Create(ctx context.Context, m *model.MemoryMessage) (*model.MemoryMessage, error)
	ListRecent(ctx context.Context, sessionID string, limit int) ([]*model.MemoryMessage, error)
	List(ctx context.Context, sessionID string, limit int) ([]*model.MemoryMessage, error)
}

type Employees interface {
	GetByName(ctx context.Context, name string) (*model.Employee, error)
	List(ctx context.Context) ([]*model.Employee, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
	DepartmentName(ctx context.Context, departmentID int64) (string, error)
	CountActive(ctx context.Context) (int, error)
}

type Attendance interface {
	ListByEmployee(ctx context.Context, employeeID int64, since time.Time) ([]*model.Attendance, error)
	CountByStatus(ctx context.Context, since time.Time) (map[string]int, error)
}

type Leaves interface {
	CreateRequest(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error)
	ListRequests(ctx context.Context, employeeID int64) ([]*model.LeaveRequest, error)
	GetBalance(ctx context.Context, employeeID int64, year int) (*model.LeaveBalance, error)
	CountPending(ctx context.Context) (int, error)
}

type Performance interface {
	CreateGoal(ctx context.Context, g *model.PerformanceGoal) (*model.PerformanceGoal, error)
	UpdateGoalProgress(ctx context.Context, employeeID int64, title string, progress int, notes string) (*model.PerformanceGoal, error)
	ListGoals(ctx context.Context, employeeID int64) ([]*model.PerformanceGoal, error)
	CreateReview(ctx context.Context, r *model.PerformanceReview) (*model.PerformanceReview, error)
	CreateFeedback(ctx context.Context, f *model.FeedbackEntry) (*model.FeedbackEntry, error)
	ListFeedback(ctx context.Context, employeeID int64) ([]*model.FeedbackEntry, error)
}

type Training interface {
	CreateRecord(ctx context.Context, r *model.TrainingRecord) (*model.TrainingRecord, error)
	ListRecords(ctx context.Context, employeeID int64) ([]*model.TrainingRecord, error)
	CreateAssessment(ctx context.Context, a *model.SkillsAssessment) (*model.SkillsAssessment, error)
}

// Queries is the raw read-only surface used by the text-to-SQL tool. Callers
// must pass query text through the safety gate before Execute.
type Queries interface {
	Execute(ctx context.Context, query string) (*model.QueryResult, error)
	SchemaDescription(ctx context.Context) (string, error)
}
