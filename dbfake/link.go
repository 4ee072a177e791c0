package dbfake

import (
	"context"
	"sync/atomic"

	"github.com/goforj/database/dbcore"
)

// Link is a fake dbcore.Link opened by Fake.
type Link struct {
	fake   *Fake
	cfg    dbcore.ConnectionConfig
	id     int
	closed atomic.Bool
}

// ID is the 1-based open order of the link.
func (l *Link) ID() int { return l.id }

// Config returns the connection parameters the link was opened with.
func (l *Link) Config() dbcore.ConnectionConfig { return l.cfg }

// Closed reports whether Close was called.
func (l *Link) Closed() bool { return l.closed.Load() }

func (l *Link) Query(ctx context.Context, query string) (*dbcore.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.closed.Load() {
		return nil, ErrLinkClosed
	}
	l.fake.record(OpQuery, query)
	return l.fake.lookup(l, query)
}

func (l *Link) Close() error {
	if l.closed.CompareAndSwap(false, true) {
		l.fake.record(OpClose, l.cfg.Host)
	}
	return nil
}
