package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/goforj/database/dbcore"
)

// Options configures shared connector contract checks.
type Options struct {
	// CaseName is used to namespace the scratch table. Defaults to t.Name().
	CaseName string
	// CreateTable overrides the dialect DDL. It must contain one %s for the table name
	// and define an auto-generated integer "id" plus a text "name" column.
	CreateTable string
	// InsertSuffix is appended to INSERT statements (e.g. " RETURNING id").
	InsertSuffix string
}

// Connector is the minimal contract required by RunConnectorContract.
type Connector = dbcore.Connector

// RunConnectorContract runs a backend-agnostic connector contract suite.
func RunConnectorContract(t *testing.T, connector Connector, cfg dbcore.ConnectionConfig, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	opts = withDialectDefaults(connector.Driver(), opts)
	table := "contract_" + sanitize(caseName)
	ctx := context.Background()

	link, err := connector.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer link.Close()

	if stmt := connector.CharsetStatement(); stmt != "" {
		if _, err := link.Query(ctx, stmt); err != nil {
			t.Fatalf("charset statement %q failed: %v", stmt, err)
		}
	}

	mustQuery(t, link, "DROP TABLE IF EXISTS "+table)
	mustQuery(t, link, fmt.Sprintf(opts.CreateTable, table))

	// Insert reports the generated id.
	res := mustQuery(t, link, fmt.Sprintf("INSERT INTO %s (name) VALUES ('alpha')%s", table, opts.InsertSuffix))
	if res.InsertID <= 0 {
		t.Fatalf("expected generated insert id, got %d", res.InsertID)
	}
	id := res.InsertID
	mustQuery(t, link, fmt.Sprintf("INSERT INTO %s (name) VALUES ('beta')%s", table, opts.InsertSuffix))

	// Select returns rows keyed by column with text materialized as strings.
	res = mustQuery(t, link, fmt.Sprintf("SELECT id, name FROM %s WHERE id = %d", table, id))
	if len(res.Rows) != 1 {
		t.Fatalf("expected one row for id %d, got %d", id, len(res.Rows))
	}
	if got := res.Rows[0]["name"]; got != "alpha" {
		t.Fatalf("expected name alpha, got %#v", got)
	}
	if got := fmt.Sprint(res.Rows[0]["id"]); got != fmt.Sprint(id) {
		t.Fatalf("expected id %d, got %s", id, got)
	}

	// Update and delete report affected rows.
	res = mustQuery(t, link, fmt.Sprintf("UPDATE %s SET name = 'gamma'", table))
	if res.AffectedRows != 2 {
		t.Fatalf("expected 2 updated rows, got %d", res.AffectedRows)
	}
	res = mustQuery(t, link, fmt.Sprintf("DELETE FROM %s WHERE id = %d", table, id))
	if res.AffectedRows != 1 {
		t.Fatalf("expected 1 deleted row, got %d", res.AffectedRows)
	}

	// Empty selects return an empty, non-nil row set.
	res = mustQuery(t, link, fmt.Sprintf("SELECT id FROM %s WHERE id = %d", table, id))
	if res.Rows == nil || len(res.Rows) != 0 {
		t.Fatalf("expected empty row set, got %#v", res.Rows)
	}

	// Driver errors surface.
	if _, err := link.Query(ctx, "SELECT * FROM "+table+"_missing"); err == nil {
		t.Fatalf("expected error for missing table")
	}

	mustQuery(t, link, "DROP TABLE "+table)

	if err := link.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := link.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("expected error on closed link")
	}
}

func mustQuery(t *testing.T, link dbcore.Link, query string) *dbcore.Result {
	t.Helper()
	res, err := link.Query(context.Background(), query)
	if err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return res
}

func withDialectDefaults(driver dbcore.Driver, opts Options) Options {
	if opts.CreateTable != "" {
		return opts
	}
	switch driver {
	case dbcore.DriverMySQL:
		opts.CreateTable = "CREATE TABLE %s (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(64) NOT NULL) ENGINE=InnoDB"
	case dbcore.DriverPostgres:
		opts.CreateTable = "CREATE TABLE %s (id SERIAL PRIMARY KEY, name VARCHAR(64) NOT NULL)"
		if opts.InsertSuffix == "" {
			opts.InsertSuffix = " RETURNING id"
		}
	default:
		opts.CreateTable = "CREATE TABLE %s (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)"
	}
	return opts
}

func sanitize(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
