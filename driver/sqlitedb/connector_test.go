package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/dbtest"
)

func TestSQLiteConnectorContract(t *testing.T) {
	connector, err := New()
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}
	dbtest.RunConnectorContract(t, connector, dbcore.ConnectionConfig{
		Database: filepath.Join(t.TempDir(), "contract.db"),
	}, dbtest.Options{CaseName: t.Name()})
}

func TestSQLiteMemoryLinkKeepsState(t *testing.T) {
	connector, err := New()
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}
	ctx := context.Background()
	link, err := connector.Connect(ctx, dbcore.ConnectionConfig{Database: ":memory:"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer link.Close()

	if _, err := link.Query(ctx, "CREATE TABLE t (v TEXT)"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := link.Query(ctx, "INSERT INTO t (v) VALUES ('x')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	res, err := link.Query(ctx, "SELECT v FROM t")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0]["v"] != "x" {
		t.Fatalf("expected in-memory table to survive between queries, got %#v", res.Rows)
	}
}

func TestSQLiteDSNRequiresPath(t *testing.T) {
	if _, err := DSN(dbcore.ConnectionConfig{Host: "ignored"}); err == nil {
		t.Fatalf("expected error without database path")
	}
	if got, _ := DSN(dbcore.ConnectionConfig{Database: "/tmp/x.db"}); got != "/tmp/x.db" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
