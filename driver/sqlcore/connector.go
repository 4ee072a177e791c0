package sqlcore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goforj/database/dbcore"
)

// DSNFunc renders a driver-specific data source name.
type DSNFunc func(cfg dbcore.ConnectionConfig) (string, error)

// Config configures a database/sql-backed connector.
type Config struct {
	// DriverName is the name the database/sql driver registered under.
	DriverName string
	// Driver is the identity reported by the connector. Defaults to DriverName.
	Driver dbcore.Driver
	// Charset is issued on every new link.
	Charset string
	DSN     DSNFunc
}

type connector struct {
	cfg Config
}

// New builds a connector around a registered database/sql driver.
func New(cfg Config) (dbcore.Connector, error) {
	if cfg.DriverName == "" || cfg.DSN == nil {
		return nil, errors.New("sql connector requires driver name and dsn builder")
	}
	if cfg.Driver == "" {
		cfg.Driver = dbcore.Driver(cfg.DriverName)
	}
	return &connector{cfg: cfg}, nil
}

func (c *connector) Driver() dbcore.Driver { return c.cfg.Driver }

func (c *connector) CharsetStatement() string { return c.cfg.Charset }

func (c *connector) Connect(ctx context.Context, cfg dbcore.ConnectionConfig) (dbcore.Link, error) {
	dsn, err := c.cfg.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s dsn: %w", c.cfg.Driver, err)
	}
	db, err := sql.Open(c.cfg.DriverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &link{db: db}, nil
}
