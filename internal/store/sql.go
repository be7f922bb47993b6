package store

import (
	"fmt"
	"strings"

	"github.com/serroba/duckbin/internal/snippet"
)

const snippetColumns = "id, slug, title, code, language, theme, created_at, updated_at"

// dialect captures the SQL differences between the relational backends.
type dialect struct {
	placeholder func(n int) string
	position    string // substring position function, returns 0 when absent
	lower       string // Unicode-aware lowercase function
}

var (
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		position:    "instr",
		lower:       sqliteLowerFunc,
	}
	postgresDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		position:    "strpos",
		lower:       "lower",
	}
)

// listWhere renders the WHERE clause of a listing and its arguments.
// Search is a literal, case-insensitive substring match.
func (d dialect) listWhere(filter snippet.Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Language != "" {
		args = append(args, filter.Language)
		clauses = append(clauses, "language = "+d.placeholder(len(args)))
	}

	if filter.Search != "" {
		args = append(args, filter.Search)
		p := d.placeholder(len(args))
		args = append(args, filter.Search)
		q := d.placeholder(len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(%[1]s(%[4]s(title), %[4]s(%[2]s)) > 0 OR %[1]s(%[4]s(code), %[4]s(%[3]s)) > 0)",
			d.position, p, q, d.lower,
		))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// pageQuery renders the SELECT of one listing page.
func (d dialect) pageQuery(where string, args []any, req snippet.PageRequest) (string, []any) {
	args = append(args, req.Limit)
	limit := d.placeholder(len(args))
	args = append(args, req.Offset())
	offset := d.placeholder(len(args))

	query := "SELECT " + snippetColumns + " FROM snippets" + where +
		" ORDER BY created_at DESC, id DESC LIMIT " + limit + " OFFSET " + offset

	return query, args
}
