// Package async runs error-returning work in the background and lets callers
// wait on it.
//
//	future := async.Exec(ctx, user, store.Save)
//	if err := future.AwaitWithTimeout(time.Second); errors.Is(err, async.ErrTimeout) {
//		// still running
//	}
//
// Detach runs work that must outlive the caller's context, such as a
// bookkeeping write started from a request handler.
package async
