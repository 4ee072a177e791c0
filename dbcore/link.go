package dbcore

import "context"

// Row is a single result row keyed by column name.
type Row map[string]any

// Result is what a link returns for one statement. Statements that
// produce rows fill Rows; the others fill InsertID and AffectedRows.
type Result struct {
	Rows         []Row
	InsertID     int64
	AffectedRows int64
}

// Link is a live handle to one database endpoint.
type Link interface {
	Query(ctx context.Context, query string) (*Result, error)
	Close() error
}

// Connector opens links for a backend.
type Connector interface {
	Driver() Driver
	// CharsetStatement is issued once on every freshly opened link.
	CharsetStatement() string
	Connect(ctx context.Context, cfg ConnectionConfig) (Link, error)
}
