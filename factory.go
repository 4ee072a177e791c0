package database

import (
	"github.com/goforj/database/dbcore"
	"github.com/goforj/database/driver/mysqldb"
	"github.com/goforj/database/driver/postgresdb"
	"github.com/goforj/database/driver/sqlitedb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// NewConnector returns the connector for driver. Unknown drivers yield a
// connector whose Connect always fails.
// @group Constructors
//
// Example: sqlite connector
//
//	c := database.NewConnector(dbcore.DriverSQLite)
//	fmt.Println(c.Driver()) // sqlite
func NewConnector(driver dbcore.Driver) dbcore.Connector {
	var (
		c   dbcore.Connector
		err error
	)
	switch driver {
	case dbcore.DriverMySQL:
		c, err = mysqldb.New(mysqldb.Config{})
	case dbcore.DriverPostgres:
		c, err = postgresdb.New(postgresdb.Config{})
	case dbcore.DriverSQLite:
		c, err = sqlitedb.New()
	default:
		err = errors.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return &errorConnector{driver: driver, err: err}
	}
	return c
}

// New builds a Database for cfg. Links are opened lazily on first use.
// @group Constructors
//
// Example: sqlite database
//
//	db, err := database.New(database.Config{
//		Driver:   dbcore.DriverSQLite,
//		Database: "app.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
func New(cfg Config, opts ...Option) (*Database, error) {
	var o options
	for _, opt := range opts {
		o = opt(o)
	}
	if o.connector == nil {
		o.connector = NewConnector(cfg.withDefaults().Driver)
	}
	cfg.Driver = o.connector.Driver()
	if o.pick != nil {
		cfg.pick = o.pick
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = NewLogger(logrus.StandardLogger(), nil)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}

	d := &Database{
		cfg:      cfg,
		log:      o.logger,
		observer: o.observer,
		fs:       o.fs,
		cache:    newQueryCache(cfg.QueryCacheSize, cfg.QueryCacheEnabled()),
	}
	d.links = newLinkManager(cfg, o.connector, o.logger)
	return d, nil
}
