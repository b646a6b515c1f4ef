package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrCookieNotFound indicates the requested cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie not found in request")
	// ErrInvalidSameSite indicates an unknown SameSite mode in configuration.
	ErrInvalidSameSite = errors.New("invalid same-site mode")
)

// ErrCookieTooLarge indicates the serialized cookie exceeds the size limit.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
