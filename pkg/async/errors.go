package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the work is still running.
var ErrTimeout = errors.New("async operation timed out")
