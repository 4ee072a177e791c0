package database

import (
	"context"

	"github.com/pkg/errors"
)

// Future is the eventual result of an operation started with Defer.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Defer runs fn in a new goroutine and returns its future result. A panic in
// fn resolves the future with an error.
// @group Futures
//
// Example: insert in the background
//
//	f := database.Defer(ctx, func(ctx context.Context) (int64, error) {
//		return db.InsertData(ctx, "INSERT INTO pages (title) VALUES ('home')")
//	})
//	id, err := f.Wait(ctx)
func Defer[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = errors.Errorf("deferred operation panicked: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a future that is already complete.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the result is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete calls cb with the result from a new goroutine once it is
// available. It returns f so callers can chain.
func (f *Future[T]) OnComplete(cb func(T, error)) *Future[T] {
	go func() {
		<-f.done
		cb(f.value, f.err)
	}()
	return f
}
