package mysqldb

import (
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/driver/sqlcore"
)

// CharsetStatement is issued on every new mysql link.
const CharsetStatement = "SET NAMES utf8"

const defaultPort = "3306"

// Config configures a mysql connector.
type Config struct {
	// Params are appended to the DSN as query parameters.
	Params map[string]string
	// Timeout bounds the dial, zero keeps the driver default.
	Timeout time.Duration
}

// New builds a mysql-backed dbcore.Connector.
func New(cfg Config) (dbcore.Connector, error) {
	return sqlcore.New(sqlcore.Config{
		DriverName: "mysql",
		Driver:     dbcore.DriverMySQL,
		Charset:    CharsetStatement,
		DSN:        cfg.DSN,
	})
}

// DSN renders a go-sql-driver/mysql data source name. Hosts starting with
// "/" are treated as unix socket paths.
func (c Config) DSN(cc dbcore.ConnectionConfig) (string, error) {
	mc := mysql.NewConfig()
	mc.User = cc.User
	mc.Passwd = cc.Password
	mc.DBName = cc.Database
	mc.Timeout = c.Timeout
	if len(c.Params) > 0 {
		mc.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			mc.Params[k] = v
		}
	}
	if strings.HasPrefix(cc.Host, "/") {
		mc.Net = "unix"
		mc.Addr = cc.Host
	} else {
		mc.Net = "tcp"
		mc.Addr = withDefaultPort(cc.Host)
	}
	return mc.FormatDSN(), nil
}

func withDefaultPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, defaultPort)
}
