package sqlitedb

import (
	"errors"

	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/driver/sqlcore"
	_ "modernc.org/sqlite"
)

// CharsetStatement is issued on every new sqlite link.
const CharsetStatement = "PRAGMA encoding = 'UTF-8'"

// New builds a sqlite-backed dbcore.Connector. The connection's Database
// field is the file path (or ":memory:"); host and credentials are ignored.
func New() (dbcore.Connector, error) {
	return sqlcore.New(sqlcore.Config{
		DriverName: "sqlite",
		Driver:     dbcore.DriverSQLite,
		Charset:    CharsetStatement,
		DSN:        DSN,
	})
}

// DSN returns the sqlite path for cc.
func DSN(cc dbcore.ConnectionConfig) (string, error) {
	if cc.Database == "" {
		return "", errors.New("sqlite requires a database path")
	}
	return cc.Database, nil
}
