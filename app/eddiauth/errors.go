package eddiauth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labsai/eddiauth/core/auth"
	"github.com/labsai/eddiauth/core/binder"
	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
)

const genericFailure = "An unexpected error occurred"

// Result is the JSON body of the auth endpoints.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// failure is an error with a status and a message that is safe to show to
// the client. The cause, if any, is only logged.
type failure struct {
	status int
	msg    string
	cause  error
}

func (f failure) Error() string {
	if f.cause != nil {
		return f.msg + ": " + f.cause.Error()
	}
	return f.msg
}

func (f failure) StatusCode() int { return f.status }
func (f failure) Unwrap() error   { return f.cause }

func badRequest(msg string) error {
	return failure{status: http.StatusBadRequest, msg: msg}
}

// fail resolves err to its public status before it reaches the error
// handler, so access logs see the final status.
func fail(err error) handler.Response {
	status, msg := describe(err)
	return response.Error(failure{status: status, msg: msg, cause: err})
}

// publicMessages are client-facing messages for domain errors.
var publicMessages = map[error]string{
	auth.ErrInvalidUsername:  "Username must be 3-20 characters and contain only letters, numbers, underscore, and dash",
	auth.ErrPasswordTooShort: "Password must be at least 6 characters long",
	auth.ErrPasswordTooLong:  "Password must be at most 72 bytes long",
	auth.ErrPasswordMismatch: "Passwords do not match",
}

// describe maps err to a status and a client-safe message. Unknown errors
// become a generic 500.
func describe(err error) (int, string) {
	var f failure
	if errors.As(err, &f) {
		return f.status, f.msg
	}

	for sentinel, msg := range publicMessages {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, msg
		}
	}

	switch {
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "Invalid CSRF token"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, auth.ErrAlreadyExists):
		return http.StatusConflict, "Username already exists"
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrMissingContentType):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "Invalid request"
	}

	var httpErr response.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status < http.StatusInternalServerError {
		return httpErr.Status, httpErr.Message
	}

	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) && sc.StatusCode() < http.StatusInternalServerError {
		return sc.StatusCode(), http.StatusText(sc.StatusCode())
	}

	return http.StatusInternalServerError, genericFailure
}

// errorHandler renders every handler error as a Result. Server errors are
// logged with their cause, which never reaches the client.
func errorHandler(log *slog.Logger) func(ctx *Context, err error) {
	return func(ctx *Context, err error) {
		status, msg := describe(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed",
				logger.Component("eddiauth"), logger.Path(ctx.Request().URL.Path), logger.Error(err))
		}

		ww, ok := ctx.ResponseWriter().(interface{ Written() bool })
		if ok && ww.Written() {
			return
		}
		response.Render(ctx, response.JSONWithStatus(Result{Success: false, Message: msg}, status))
	}
}
