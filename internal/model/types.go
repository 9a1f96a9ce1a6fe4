package model

import "time"

// ContextMessage is one turn inside a session's cached context window.
type ContextMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ConversationRecord is the per-session memory record. Exactly one exists per
// session identifier; it is created lazily on the first message.
type ConversationRecord struct {
	SessionID      string            `json:"sessionId"`
	UserID         *string           `json:"userId,omitempty"`
	Summary        *string           `json:"summary,omitempty"`
	KeyPoints      []string          `json:"keyPoints"`
	Preferences    map[string]string `json:"preferences"`
	ContextWindow  []ContextMessage  `json:"contextWindow"`
	CreationTime   time.Time         `json:"creationTime"`
	LastUpdateTime *time.Time        `json:"lastUpdateTime,omitempty"`
}

// MemoryMessage is a single stored turn. Insertion order is the only recency
// signal; timestamps may collide under rapid writes.
type MemoryMessage struct {
	ID           int64                  `json:"id"`
	SessionID    string                 `json:"sessionId"`
	Role         string                 `json:"role"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreationTime time.Time              `json:"creationTime"`
}

// UserProfile holds per-user preferences. The schema exists for parity with
// the conversation store; no chat operation populates it yet.
type UserProfile struct {
	UserID             string     `json:"userId"`
	LanguagePreference string     `json:"languagePreference"`
	CommunicationStyle string     `json:"communicationStyle"`
	TopicInterests     []string   `json:"topicInterests,omitempty"`
	Department         *string    `json:"department,omitempty"`
	Role               *string    `json:"role,omitempty"`
	CreationTime       time.Time  `json:"creationTime"`
	LastUpdateTime     *time.Time `json:"lastUpdateTime,omitempty"`
}

// --- HR records queried and written by the tool layer ---

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Employee struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         *string `json:"role,omitempty"`
	DepartmentID *int64  `json:"departmentId,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Active       bool    `json:"active"`
}

type Attendance struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
}

type LeaveBalance struct {
	EmployeeID int64 `json:"employeeId"`
	Year       int   `json:"year"`
	TotalDays  int   `json:"totalDays"`
	DaysUsed   int   `json:"daysUsed"`
}

type LeaveRequest struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	Date       time.Time `json:"date"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
}

type PerformanceGoal struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetDate  time.Time `json:"targetDate"`
	Priority    string    `json:"priority"`
	Progress    int       `json:"progress"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PerformanceReview struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	ReviewDate time.Time `json:"reviewDate"`
	ReviewType string    `json:"reviewType"`
	Reviewer   *string   `json:"reviewer,omitempty"`
	Status     string    `json:"status"`
}

type FeedbackEntry struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	From       string    `json:"from"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TrainingRecord struct {
	ID             int64      `json:"id"`
	EmployeeID     int64      `json:"employeeId"`
	Program        string     `json:"program"`
	Status         string     `json:"status"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	Score          *int       `json:"score,omitempty"`
}

type SkillsAssessment struct {
	ID             int64     `json:"id"`
	EmployeeID     int64     `json:"employeeId"`
	AssessmentType string    `json:"assessmentType"`
	Date           time.Time `json:"date"`
	Assessor       *string   `json:"assessor,omitempty"`
	Status         string    `json:"status"`
}

// QueryResult is the generic shape returned by the read-only query surface:
// ordered column names plus row maps keyed by column.
type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}
