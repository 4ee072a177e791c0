package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goforj/database/dbcore"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type observedOp struct {
	op     string
	hit    bool
	failed bool
	driver dbcore.Driver
}

type spyObserver struct {
	mu  sync.Mutex
	ops []observedOp
}

func (s *spyObserver) OnQuery(_ context.Context, op string, _ string, hit bool, err error, _ time.Duration, driver dbcore.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, observedOp{op: op, hit: hit, failed: err != nil, driver: driver})
}

func (s *spyObserver) named(op string) []observedOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []observedOp
	for _, o := range s.ops {
		if o.op == op {
			out = append(out, o)
		}
	}
	return out
}

func TestObserverSeesReadsWritesAndFailures(t *testing.T) {
	ctx := context.Background()
	spy := &spyObserver{}
	db, fake := newFakeDatabase(t, fakeConfig(), WithObserver(spy))
	scriptPages(fake)
	fake.Fail("DELETE FROM rz_locked", errors.New("lock wait timeout"))

	_, _ = db.GetData(ctx, pagesQuery)
	_, _ = db.GetData(ctx, pagesQuery)
	_, _ = db.InsertData(ctx, "INSERT INTO rz_pages (title) VALUES ('x')")
	_, _ = db.DeleteData(ctx, "DELETE FROM rz_locked")

	reads := spy.named("get_data")
	require.Equal(t, []observedOp{
		{op: "get_data", hit: false, driver: dbcore.DriverFake},
		{op: "get_data", hit: true, driver: dbcore.DriverFake},
	}, reads)
	require.Len(t, spy.named("insert"), 1)
	require.Equal(t, []observedOp{{op: "delete", failed: true, driver: dbcore.DriverFake}}, spy.named("delete"))
	require.Len(t, spy.named("execute"), 3)
}

func TestObserversFanOut(t *testing.T) {
	a, b := &spyObserver{}, &spyObserver{}
	obs := Observers(a, nil, b)
	obs.OnQuery(context.Background(), "execute", "SELECT 1", false, nil, time.Millisecond, dbcore.DriverSQLite)
	require.Len(t, a.ops, 1)
	require.Len(t, b.ops, 1)

	var nilFunc ObserverFunc
	require.NotPanics(t, func() {
		nilFunc.OnQuery(context.Background(), "execute", "", false, nil, 0, dbcore.DriverFake)
	})
}

func TestMetricsObserver(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewPedanticRegistry()
	metrics := NewMetricsObserver(reg)
	db, fake := newFakeDatabase(t, fakeConfig(), WithObserver(metrics))
	scriptPages(fake)
	fake.Fail("SELECT broken", errors.New("syntax error"))

	_, _ = db.GetData(ctx, pagesQuery)
	_, _ = db.GetData(ctx, pagesQuery)
	_, _ = db.GetData(ctx, "SELECT broken")

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ops.WithLabelValues("get_data", "fake", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ops.WithLabelValues("get_data", "fake", OutcomeHit)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ops.WithLabelValues("get_data", "fake", OutcomeError)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ops.WithLabelValues("execute", "fake", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ops.WithLabelValues("execute", "fake", OutcomeError)))
	require.Equal(t, 2, testutil.CollectAndCount(metrics.duration))
}
