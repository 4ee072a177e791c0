// Package integration holds the container-backed suites for the MySQL and
// PostgreSQL drivers. Run them with:
//
//	go test -tags integration ./integration/...
//
// INTEGRATION_DRIVER (comma separated: mysql, postgres) narrows the run.
package integration
