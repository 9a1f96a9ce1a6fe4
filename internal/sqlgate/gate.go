// Package sqlgate validates model-generated query text before it may touch
// the database. The text is adversarial by construction, so acceptance
// requires a real parse, a single-statement check, and a statement-type
// check. Anything that fails to parse is rejected.
package sqlgate

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// IsReadOnly reports whether query is exactly one parseable SELECT (or UNION
// of SELECTs) and nothing else. A prefix check alone is not enough: stacked
// statements behind a semicolon or a leading comment would slip through.
func IsReadOnly(query string) bool {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false
	}
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return false
	}

	pieces, err := sqlparser.SplitStatementToPieces(trimmed)
	if err != nil {
		return false
	}
	var stmts []string
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			stmts = append(stmts, p)
		}
	}
	if len(stmts) != 1 {
		return false
	}

	parsed, err := sqlparser.Parse(stmts[0])
	if err != nil {
		return false
	}
	switch parsed.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return true
	}
	return false
}
