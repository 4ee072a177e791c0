package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goforj/database/dbcore"
	log "github.com/sirupsen/logrus"
)

// DelayedHandler receives the raw result of a delayed query.
type DelayedHandler func(res *dbcore.Result)

// DelayedQuery is a statement queued for the end of the unit of work. It
// runs on Link when set and on the link for Role otherwise.
type DelayedQuery struct {
	Query   string
	Role    dbcore.Role
	Link    dbcore.Link
	Handler DelayedHandler
}

type delayedQueue struct {
	mu      sync.Mutex
	entries []DelayedQuery
}

func (q *delayedQueue) push(dq DelayedQuery) {
	q.mu.Lock()
	q.entries = append(q.entries, dq)
	q.mu.Unlock()
}

func (q *delayedQueue) drain() []DelayedQuery {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries := q.entries
	q.entries = nil
	return entries
}

func (q *delayedQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// RegisterDelayedQuery queues query for the read or write link. It returns
// false, queuing nothing, for any other role.
// @group Delayed queries
//
// Example: count a page view later
//
//	db.RegisterDelayedQuery("UPDATE pages SET views = views + 1 WHERE id = 1", dbcore.Write, nil)
//	// ...
//	db.ExecuteDelayedQueries(ctx)
func (d *Database) RegisterDelayedQuery(query string, role dbcore.Role, handler DelayedHandler) bool {
	if role != dbcore.Read && role != dbcore.Write {
		return false
	}
	d.delayed.push(DelayedQuery{Query: query, Role: role, Handler: handler})
	return true
}

// RegisterDelayedQueryOn queues query for an explicit link. It returns false
// for a nil link.
// @group Delayed queries
func (d *Database) RegisterDelayedQueryOn(query string, link dbcore.Link, handler DelayedHandler) bool {
	if link == nil {
		return false
	}
	d.delayed.push(DelayedQuery{Query: query, Link: link, Handler: handler})
	return true
}

// DelayedQueryCount returns the number of queued queries.
// @group Delayed queries
func (d *Database) DelayedQueryCount() int { return d.delayed.len() }

// ExecuteDelayedQueries runs every queued query once, in registration order,
// bypassing the result cache. Failures are logged and never returned.
// Queries registered while the flush runs wait for the next one.
// @group Delayed queries
func (d *Database) ExecuteDelayedQueries(ctx context.Context) {
	for _, dq := range d.delayed.drain() {
		d.runDelayed(ctx, dq)
	}
}

func (d *Database) runDelayed(ctx context.Context, dq DelayedQuery) {
	defer func() {
		if r := recover(); r != nil {
			d.log.log(LevelError, fmt.Sprintf("Delayed query handler panicked: %v", r), log.Fields{"query": dq.Query})
		}
	}()

	var src linkSource = roleLink{m: d.links, role: dq.Role}
	if dq.Link != nil {
		src = readyLink{link: dq.Link}
	}
	start := time.Now()
	res, err := d.execute(ctx, dq.Query, src)
	d.observe(ctx, "delayed", dq.Query, false, err, start)
	if err != nil {
		d.log.log(LevelError, err.Error(), log.Fields{"query": dq.Query})
		return
	}
	if dq.Handler != nil {
		dq.Handler(res)
	}
}
