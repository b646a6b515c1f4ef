package userstore

import "errors"

// ErrIndex is returned when the username index cannot be created.
var ErrIndex = errors.New("failed to ensure user index")
