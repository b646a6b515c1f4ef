package response

import (
	"errors"
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// ToHTTPError converts any error to an HTTPError. Errors that are not
// HTTPError keep only their status; their message is never exposed.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	if base, ok := httpErrorsByStatus[status]; ok {
		return base
	}
	return ErrInternalServerError
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as JSON HTTPError bodies.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
