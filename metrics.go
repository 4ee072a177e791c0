package database

import (
	"context"
	"time"

	"github.com/goforj/database/dbcore"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes reported by MetricsObserver.
const (
	OutcomeOK    = "ok"
	OutcomeHit   = "hit"
	OutcomeError = "error"
)

// MetricsObserver counts and times operations in Prometheus.
type MetricsObserver struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver registers the database collectors with reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	m := &MetricsObserver{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "database_operations_total",
			Help: "Cumulative number of database operations by op, driver and outcome.",
		}, []string{"op", "driver", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "database_operation_duration_seconds",
			Help:    "Duration of database operations, including cache hits.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "driver"}),
	}
	reg.MustRegister(m.ops, m.duration)
	return m
}

func (m *MetricsObserver) OnQuery(_ context.Context, op string, _ string, hit bool, err error, dur time.Duration, driver dbcore.Driver) {
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case hit:
		outcome = OutcomeHit
	}
	m.ops.WithLabelValues(op, string(driver), outcome).Inc()
	m.duration.WithLabelValues(op, string(driver)).Observe(dur.Seconds())
}
