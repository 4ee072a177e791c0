package database

import (
	"context"

	"github.com/goforj/database/dbcore"
)

// errorConnector is returned when a driver cannot be built; it keeps the
// driver identity and surfaces the construction error on every connect.
type errorConnector struct {
	driver dbcore.Driver
	err    error
}

func (e *errorConnector) Driver() dbcore.Driver    { return e.driver }
func (e *errorConnector) CharsetStatement() string { return "" }
func (e *errorConnector) Connect(context.Context, dbcore.ConnectionConfig) (dbcore.Link, error) {
	return nil, e.err
}
