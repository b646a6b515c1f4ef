package session

import "errors"

var (
	// ErrIDGeneration is returned when the random source fails.
	ErrIDGeneration = errors.New("failed to generate session id")
	// ErrEmptyUsername is returned when creating a session without a user.
	ErrEmptyUsername = errors.New("username is required")
	// ErrAlreadyStarted is returned by Start on a running store.
	ErrAlreadyStarted = errors.New("session cleanup already started")
	// ErrNotStarted is returned by Stop on a store that is not running.
	ErrNotStarted = errors.New("session cleanup not started")
)
