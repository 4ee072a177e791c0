package database

import (
	"context"
	"time"

	"github.com/goforj/database/dbcore"
)

// Observer receives events for database operations.
// It is called after each operation completes; hit is true for reads served
// from the result cache.
type Observer interface {
	OnQuery(ctx context.Context, op string, query string, hit bool, err error, dur time.Duration, driver dbcore.Driver)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, query string, hit bool, err error, dur time.Duration, driver dbcore.Driver)

// OnQuery implements Observer.
func (f ObserverFunc) OnQuery(ctx context.Context, op string, query string, hit bool, err error, dur time.Duration, driver dbcore.Driver) {
	if f == nil {
		return
	}
	f(ctx, op, query, hit, err, dur, driver)
}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	return ObserverFunc(func(ctx context.Context, op string, query string, hit bool, err error, dur time.Duration, driver dbcore.Driver) {
		for _, o := range obs {
			if o != nil {
				o.OnQuery(ctx, op, query, hit, err, dur, driver)
			}
		}
	})
}
