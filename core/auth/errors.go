package auth

import "errors"

var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden marks a failed CSRF check.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized marks bad credentials or a missing session.
	ErrUnauthorized = errors.New("invalid username or password")
	// ErrAlreadyExists is returned when the username is taken.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrNotFound is returned for operations on a missing user.
	ErrNotFound = errors.New("user not found")
	// ErrStore wraps user store failures.
	ErrStore = errors.New("user store failure")
	// ErrInternal marks any other unexpected failure.
	ErrInternal = errors.New("internal error")

	// ErrInvalidUsername is returned for usernames outside the allowed pattern.
	ErrInvalidUsername = errors.Join(ErrInvalidInput, errors.New("username must be 3-20 characters: letters, digits, underscore or dash"))
	// ErrPasswordTooShort is returned for passwords under the minimum length.
	ErrPasswordTooShort = errors.Join(ErrInvalidInput, errors.New("password must be at least 6 characters"))
	// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit.
	ErrPasswordTooLong = errors.Join(ErrInvalidInput, errors.New("password must be at most 72 bytes"))
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.Join(ErrInvalidInput, errors.New("passwords do not match"))
)
