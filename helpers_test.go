package database

import (
	"testing"

	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/dbfake"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func fakeConfig() Config {
	return Config{
		TablePrefix: "rz_",
		Host:        "db-main",
		User:        "rhizoma",
		Password:    "secret",
		Database:    "site",
	}
}

func splitConfig() Config {
	cfg := fakeConfig()
	cfg.Split = true
	cfg.Read = []dbcore.ConnectionConfig{{Host: "db-read", User: "reader", Database: "site"}}
	cfg.Write = []dbcore.ConnectionConfig{{Host: "db-write", User: "writer", Database: "site"}}
	return cfg
}

func newTestLogger() (*Logger, *test.Hook) {
	out, hook := test.NewNullLogger()
	out.SetLevel(logrus.TraceLevel)
	return NewLogger(out, nil), hook
}

func newFakeDatabase(t *testing.T, cfg Config, opts ...Option) (*Database, *dbfake.Fake) {
	t.Helper()
	fake := dbfake.New()
	logger, _ := newTestLogger()
	opts = append([]Option{WithConnector(fake), WithLogger(logger)}, opts...)
	db, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, fake
}
