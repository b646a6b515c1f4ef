package csrf

import "errors"

var (
	// ErrTokenGeneration is returned when the random source fails.
	ErrTokenGeneration = errors.New("failed to generate csrf token")
	// ErrStore wraps failures of the token store.
	ErrStore = errors.New("csrf token store failure")
	// ErrAlreadyStarted is returned by Start on a running service.
	ErrAlreadyStarted = errors.New("csrf cleanup already started")
	// ErrNotStarted is returned by Stop on a service that is not running.
	ErrNotStarted = errors.New("csrf cleanup not started")
)
