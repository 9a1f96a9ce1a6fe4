package sqlgate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsReadOnlyAccepts(t *testing.T) {
	accepted := []string{
		"SELECT name FROM employees",
		"SELECT name FROM employees;",
		"  select id, name from employees where active = 1  ",
		"SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'",
		"SELECT e.name, d.name FROM employees e JOIN departments d ON e.department_id = d.id",
		"SELECT name FROM employees UNION SELECT name FROM departments",
		"SELECT * FROM (SELECT id FROM employees ORDER BY id DESC LIMIT 5) t",
	}
	for _, q := range accepted {
		require.True(t, IsReadOnly(q), "expected accept: %s", q)
	}
}

func TestIsReadOnlyRejects(t *testing.T) {
	rejected := []string{
		"",
		"   ",
		"DELETE FROM employees;",
		"DROP TABLE employees",
		"UPDATE employees SET active = 0",
		"INSERT INTO employees (name) VALUES ('x')",
		// Stacked statements hide a mutation behind a valid read.
		"SELECT 1; DROP TABLE employees;",
		"SELECT name FROM employees; DELETE FROM employees",
		// Malformed input fails closed.
		"SELECT 1 FROM ;;;",
		"SELECT FROM WHERE",
		// Comment prefix defeats the keyword check, so it never reaches the parser.
		"-- harmless\nDROP TABLE employees",
		"select into outfile '/tmp/x' from employees",
	}
	for _, q := range rejected {
		require.False(t, IsReadOnly(q), "expected reject: %s", q)
	}
}
