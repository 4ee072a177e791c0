package dbfake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goforj/database/dbcore"
)

// Op identifies a fake operation for assertions.
type Op string

const (
	OpConnect Op = "connect"
	OpQuery   Op = "query"
	OpClose   Op = "close"
)

// CharsetStatement is what the fake reports as its charset statement.
const CharsetStatement = "SET NAMES utf8"

// ErrLinkClosed is returned by queries on a closed fake link.
var ErrLinkClosed = errors.New("dbfake: link closed")

// Call records one query in issue order.
type Call struct {
	Query string
	Link  *Link
}

type response struct {
	result *dbcore.Result
	err    error
}

// Fake is a scripted in-memory dbcore.Connector plus assertion helpers for tests.
// Responses are matched on exact query text; unmatched queries succeed with an
// empty result.
type Fake struct {
	mu         sync.Mutex
	counts     map[Op]map[string]int
	responses  map[string]response
	connectErr map[string]error
	hold       chan struct{}
	links      []*Link
	calls      []Call
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		counts:     make(map[Op]map[string]int),
		responses:  make(map[string]response),
		connectErr: make(map[string]error),
	}
}

func (f *Fake) Driver() dbcore.Driver { return dbcore.DriverFake }

func (f *Fake) CharsetStatement() string { return CharsetStatement }

// Connect opens a fake link for cfg. Connections to cfg.Host fail when FailConnect was set for it.
func (f *Fake) Connect(ctx context.Context, cfg dbcore.ConnectionConfig) (dbcore.Link, error) {
	f.mu.Lock()
	hold := f.hold
	f.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.record(OpConnect, cfg.Host)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.connectErr[cfg.Host]; ok {
		return nil, err
	}
	if err, ok := f.connectErr[""]; ok {
		return nil, err
	}
	l := &Link{fake: f, cfg: cfg, id: len(f.links) + 1}
	f.links = append(f.links, l)
	return l, nil
}

// Respond scripts the result for query.
func (f *Fake) Respond(query string, res *dbcore.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[query] = response{result: res}
}

// RespondRows scripts a row set for query.
func (f *Fake) RespondRows(query string, rows ...dbcore.Row) {
	if rows == nil {
		rows = []dbcore.Row{}
	}
	f.Respond(query, &dbcore.Result{Rows: rows, AffectedRows: int64(len(rows))})
}

// Fail scripts an error for query.
func (f *Fake) Fail(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[query] = response{err: err}
}

// FailConnect makes connections to host fail with err. An empty host matches
// every host; a nil err clears the failure.
func (f *Fake) FailConnect(host string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.connectErr, host)
		return
	}
	f.connectErr[host] = err
}

// HoldConnects blocks every Connect until the returned release func is called.
func (f *Fake) HoldConnects() (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.hold = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.hold = nil
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Links returns the links opened so far, in open order.
func (f *Fake) Links() []*Link {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Link(nil), f.links...)
}

// Calls returns every query issued so far, in issue order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reset clears recorded counts and calls. Scripted responses are kept.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
	f.calls = nil
}

// AssertCalled verifies key was touched by op the expected number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, key string, times int) {
	t.Helper()
	if got := f.Count(op, key); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, key, times, got)
	}
}

// AssertNotCalled ensures key was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, key string) {
	t.Helper()
	if got := f.Count(op, key); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+key.
func (f *Fake) Count(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		return 0
	}
	return f.counts[op][key]
}

// Total returns total calls for an op across keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts[op] {
		sum += v
	}
	return sum
}

func (f *Fake) record(op Op, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		f.counts[op] = make(map[string]int)
	}
	f.counts[op][key]++
}

func (f *Fake) lookup(l *Link, query string) (*dbcore.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Query: query, Link: l})
	resp, ok := f.responses[query]
	if !ok {
		return &dbcore.Result{Rows: []dbcore.Row{}}, nil
	}
	if resp.err != nil {
		return nil, resp.err
	}
	out := *resp.result
	return &out, nil
}
