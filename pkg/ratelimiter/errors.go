package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrInvalidTokenCount = errors.New("token count must be positive")
	ErrAlreadyStarted    = errors.New("memory store cleanup already started")
	ErrNotStarted        = errors.New("memory store cleanup not started")
)
