// Package sqlcore provides the shared database/sql-backed connector.
// For dialect-specific registrations, prefer driver/mysqldb, driver/postgresdb,
// or driver/sqlitedb.
//
// Every link wraps a *sql.DB capped at a single open connection, so session
// state set by the charset statement applies to every later query on that link.
//
// Example:
//
//	// Import a database/sql driver (or use a dialect wrapper package) before calling sqlcore.New.
//	connector, err := sqlcore.New(sqlcore.Config{
//		DriverName: "pgx",
//		Driver:     dbcore.DriverPostgres,
//		Charset:    "SET client_encoding TO 'UTF8'",
//		DSN: func(cfg dbcore.ConnectionConfig) (string, error) {
//			return "postgres://" + cfg.User + ":" + cfg.Password + "@" + cfg.Host + "/" + cfg.Database, nil
//		},
//	})
//	if err != nil {
//		panic(err)
//	}
package sqlcore
