package async

import (
	"context"
	"time"
)

// Future carries exactly one outcome: a value or an error.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Resolve returns a future for an outcome that has already been computed.
// Delivery happens on a timer after delay, or on a fresh goroutine when
// delay <= 0, never on the caller's stack.
func Resolve[T any](delay time.Duration, value T, err error) *Future[T] {
	f := &Future[T]{
		done:  make(chan struct{}),
		value: value,
		err:   err,
	}
	if err != nil {
		var zero T
		f.value = zero
	}
	if delay <= 0 {
		go close(f.done)
	} else {
		time.AfterFunc(delay, func() { close(f.done) })
	}
	return f
}

// Done is closed once the outcome is deliverable.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the outcome has been delivered, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the outcome is delivered or ctx ends. Giving up on ctx
// does not cancel the future; a later Await still observes the outcome.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
