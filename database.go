// Package database is a database access layer that resolves role-based
// connections (read, write, readwrite), executes queries with normalized
// errors, caches read results in an LRU keyed by transform and query, and
// defers low-priority queries until the end of a unit of work.
package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goforj/database/dbcore"
	"github.com/spf13/afero"
)

// Database multiplexes queries over role-keyed links, caches read results
// and queues delayed queries until the end of a unit of work.
type Database struct {
	cfg      Config
	links    *linkManager
	cache    *queryCache
	delayed  delayedQueue
	log      *Logger
	observer Observer
	fs       afero.Fs

	queryCount atomic.Int64
	installed  atomic.Bool
}

// Config returns the normalized configuration.
func (d *Database) Config() Config { return d.cfg }

// Driver reports the backend the links are opened with.
func (d *Database) Driver() dbcore.Driver { return d.links.connector.Driver() }

// TablePrefix returns the configured table prefix.
func (d *Database) TablePrefix() string { return d.cfg.TablePrefix }

// QueryCount returns how many statements went through the executor.
// Cache hits are not counted; failed statements are.
func (d *Database) QueryCount() int64 { return d.queryCount.Load() }

// Logger returns the logger the database writes to.
func (d *Database) Logger() *Logger { return d.log }

// GetLink returns the link for role, establishing it on first use.
// @group Links
//
// Example: read link
//
//	link, err := db.GetLink(ctx, dbcore.Read)
//	if err != nil {
//		return err
//	}
//	res, err := db.ExecuteQuery(ctx, "SELECT 1", link)
func (d *Database) GetLink(ctx context.Context, role dbcore.Role) (dbcore.Link, error) {
	return d.links.get(ctx, role)
}

// PendingLink resolves the link for role in the background.
// @group Links
func (d *Database) PendingLink(ctx context.Context, role dbcore.Role) *Future[dbcore.Link] {
	return Defer(ctx, func(ctx context.Context) (dbcore.Link, error) {
		return d.links.get(ctx, role)
	})
}

// EnableQueryCache creates an empty result cache unless one exists or the
// configuration disables caching.
// @group Result cache
func (d *Database) EnableQueryCache() {
	if d.cache.enable() {
		d.log.Info("Query cache enabled")
	}
}

// DisableQueryCache drops the result cache. Reads go to the database until
// it is enabled again.
// @group Result cache
func (d *Database) DisableQueryCache() {
	d.cache.disable()
	d.log.Info("Query cache disabled")
}

// QueryCacheEnabled reports whether read results are currently cached.
// @group Result cache
func (d *Database) QueryCacheEnabled() bool { return d.cache.enabled() }

// CacheStats returns result cache counters.
// @group Result cache
func (d *Database) CacheStats() CacheStats { return d.cache.stats() }

func (d *Database) invalidateQueryCache() {
	if d.cache.invalidate() {
		d.log.Info("Query cache invalidated")
	}
}

// Close closes every open link. Delayed queries still queued are dropped;
// use Shutdown to run them first.
// @group Lifecycle
func (d *Database) Close() error {
	return d.links.close()
}

// Shutdown runs the delayed queries and closes every link.
// @group Lifecycle
func (d *Database) Shutdown(ctx context.Context) error {
	d.ExecuteDelayedQueries(ctx)
	return d.Close()
}

func (d *Database) observe(ctx context.Context, op, query string, hit bool, err error, start time.Time) {
	if d.observer == nil {
		return
	}
	d.observer.OnQuery(ctx, op, query, hit, err, time.Since(start), d.Driver())
}
