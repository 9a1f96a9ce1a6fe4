package sqlite

// migrations is the ordered list of SQL statements applied at startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conversation_sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT,
		summary TEXT,
		key_points TEXT,
		preferences TEXT,
		context_window TEXT,
		creation_time DATETIME NOT NULL,
		last_update_time DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS memory_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES conversation_sessions(session_id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT,
		creation_time DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_messages_session ON memory_messages(session_id, id)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id TEXT PRIMARY KEY,
		language_preference TEXT DEFAULT 'en',
		communication_style TEXT DEFAULT 'formal',
		topic_interests TEXT,
		department TEXT,
		role TEXT,
		creation_time DATETIME NOT NULL,
		last_update_time DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT,
		department_id INTEGER REFERENCES departments(id),
		phone TEXT,
		address TEXT,
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		attendance_date DATE NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_date ON attendances(attendance_date)`,
	`CREATE TABLE IF NOT EXISTS leave_balances (
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		year INTEGER NOT NULL,
		total_days INTEGER NOT NULL,
		days_used INTEGER NOT NULL,
		PRIMARY KEY (employee_id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		leave_date DATE NOT NULL,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE TABLE IF NOT EXISTS performance_goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		target_date DATE NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		progress INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS performance_reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		review_date DATE NOT NULL,
		review_type TEXT NOT NULL,
		reviewer TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled'
	)`,
	`CREATE TABLE IF NOT EXISTS feedback_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		feedback_from TEXT NOT NULL,
		feedback_text TEXT NOT NULL,
		rating INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS training_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		program TEXT NOT NULL,
		status TEXT NOT NULL,
		completion_date DATE,
		score INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS skills_assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		assessment_type TEXT NOT NULL,
		assessment_date DATE NOT NULL,
		assessor TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled'
	)`,
}
