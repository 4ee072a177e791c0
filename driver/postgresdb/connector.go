package postgresdb

import (
	"net/url"

	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/driver/sqlcore"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// CharsetStatement is issued on every new postgres link.
const CharsetStatement = "SET client_encoding TO 'UTF8'"

// Config configures a postgres connector.
type Config struct {
	// SSLMode is passed through as the sslmode parameter when set.
	SSLMode string
}

// New builds a postgres-backed dbcore.Connector using the pgx stdlib driver.
func New(cfg Config) (dbcore.Connector, error) {
	return sqlcore.New(sqlcore.Config{
		DriverName: "pgx",
		Driver:     dbcore.DriverPostgres,
		Charset:    CharsetStatement,
		DSN:        cfg.DSN,
	})
}

// DSN renders a postgres URL understood by pgx.
func (c Config) DSN(cc dbcore.ConnectionConfig) (string, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   cc.Host,
		Path:   "/" + cc.Database,
	}
	if cc.Password != "" {
		u.User = url.UserPassword(cc.User, cc.Password)
	} else if cc.User != "" {
		u.User = url.User(cc.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String(), nil
}
