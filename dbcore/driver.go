package dbcore

// Driver identifies a database backend.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverFake     Driver = "fake"
)
