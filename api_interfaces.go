package database

import (
	"context"
	"io"

	"github.com/goforj/database/dbcore"
)

// CoreAPI exposes basic database metadata.
type CoreAPI interface {
	Driver() dbcore.Driver
	TablePrefix() string
	QueryCount() int64
}

// ReadAPI exposes cached read operations.
type ReadAPI interface {
	GetData(ctx context.Context, query string) ([]dbcore.Row, error)
	GetDataRow(ctx context.Context, query string) (dbcore.Row, bool, error)
}

// WriteAPI exposes write operations. Every write clears the result cache.
type WriteAPI interface {
	InsertData(ctx context.Context, query string) (int64, error)
	UpdateData(ctx context.Context, query string) (bool, error)
	UpdateDataRows(ctx context.Context, query string) (int64, error)
	DeleteData(ctx context.Context, query string) (int64, error)
}

// LinkAPI exposes role links and raw execution.
type LinkAPI interface {
	GetLink(ctx context.Context, role dbcore.Role) (dbcore.Link, error)
	PendingLink(ctx context.Context, role dbcore.Role) *Future[dbcore.Link]
	ExecuteQuery(ctx context.Context, query string, link dbcore.Link) (*dbcore.Result, error)
	ExecuteOn(ctx context.Context, query string, link *Future[dbcore.Link]) (*dbcore.Result, error)
}

// QueryCacheAPI exposes result cache control.
type QueryCacheAPI interface {
	EnableQueryCache()
	DisableQueryCache()
	QueryCacheEnabled() bool
	CacheStats() CacheStats
}

// DelayedAPI exposes the delayed query queue.
type DelayedAPI interface {
	RegisterDelayedQuery(query string, role dbcore.Role, handler DelayedHandler) bool
	RegisterDelayedQueryOn(query string, link dbcore.Link, handler DelayedHandler) bool
	DelayedQueryCount() int
	ExecuteDelayedQueries(ctx context.Context)
}

// MaintenanceAPI exposes scripts, the installed check and shutdown.
type MaintenanceAPI interface {
	RunSQLScript(ctx context.Context, path string) error
	RunSQLScriptReader(ctx context.Context, r io.Reader) error
	AssertInstalled(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Close() error
}

// DatabaseAPI is the full surface of Database.
type DatabaseAPI interface {
	CoreAPI
	ReadAPI
	WriteAPI
	LinkAPI
	QueryCacheAPI
	DelayedAPI
	MaintenanceAPI
}

var _ DatabaseAPI = (*Database)(nil)
