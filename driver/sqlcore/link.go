package sqlcore

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/goforj/database/dbcore"
)

var returningRE = regexp.MustCompile(`(?i)\bRETURNING\b`)

type link struct {
	db *sql.DB
}

// DB exposes the underlying handle for callers that need database/sql directly.
func (l *link) DB() *sql.DB { return l.db }

func (l *link) Query(ctx context.Context, query string) (*dbcore.Result, error) {
	if returnsRows(query) {
		return l.query(ctx, query)
	}
	res, err := l.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &dbcore.Result{}
	// Not every driver reports both values (pgx has no LastInsertId).
	if id, err := res.LastInsertId(); err == nil {
		out.InsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.AffectedRows = n
	}
	return out, nil
}

func (l *link) query(ctx context.Context, query string) (*dbcore.Result, error) {
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &dbcore.Result{Rows: []dbcore.Row{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(dbcore.Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out.AffectedRows = int64(len(out.Rows))
	// INSERT ... RETURNING reports the generated key as the first column.
	if leadingKeyword(query) == "INSERT" && len(out.Rows) > 0 && len(cols) > 0 {
		if id, ok := asInt64(out.Rows[0][cols[0]]); ok {
			out.InsertID = id
		}
	}
	return out, nil
}

func (l *link) Close() error {
	return l.db.Close()
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	}
	return 0, false
}

// returnsRows reports whether a statement yields a result set.
func returnsRows(query string) bool {
	switch leadingKeyword(query) {
	case "SELECT", "SHOW", "WITH", "DESCRIBE", "DESC", "EXPLAIN", "VALUES", "TABLE":
		return true
	case "PRAGMA":
		return !strings.Contains(query, "=")
	case "INSERT", "UPDATE", "DELETE":
		return returningRE.MatchString(query)
	}
	return false
}

func leadingKeyword(query string) string {
	q := strings.TrimLeft(query, " \t\r\n(")
	end := strings.IndexFunc(q, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '(' || r == ';'
	})
	if end >= 0 {
		q = q[:end]
	}
	return strings.ToUpper(q)
}
