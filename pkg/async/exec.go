package async

import (
	"context"
	"time"
)

// ExecFuture is the pending result of background work that returns only an error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await blocks until the work finishes and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout if the work
// has not finished by then. The work keeps running.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.err
	case <-timer.C:
		return ErrTimeout
	}
}

// IsComplete reports whether the work has finished, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn(ctx, param) in a new goroutine. If ctx is already done, fn is
// not called and the future resolves to ctx.Err().
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.err = fn(ctx, param)
	}()

	return f
}

// Detach runs fn like Exec but with a context that ignores ctx cancellation
// and is bounded by timeout instead. Context values are kept.
func Detach[T any](ctx context.Context, timeout time.Duration, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	go func() {
		defer close(f.done)
		defer cancel()
		f.err = fn(detached, param)
	}()

	return f
}

// ExecAll waits for every future and returns the first error in argument order.
func ExecAll(futures ...*ExecFuture) error {
	var first error
	for _, f := range futures {
		if err := f.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
