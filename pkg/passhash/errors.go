package passhash

import "errors"

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	// ErrHashFailed wraps failures of the underlying hash function.
	ErrHashFailed = errors.New("failed to hash password")
)
