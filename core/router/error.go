package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

// routeError is a routing failure that carries its HTTP status.
type routeError struct {
	msg    string
	status int
}

func (e routeError) Error() string   { return e.msg }
func (e routeError) StatusCode() int { return e.status }

var (
	ErrNotFound         error = routeError{msg: "not found", status: http.StatusNotFound}
	ErrMethodNotAllowed error = routeError{msg: "method not allowed", status: http.StatusMethodNotAllowed}

	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
)

// statusCode is implemented by errors that map to a specific HTTP status.
type statusCode interface {
	StatusCode() int
}

func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	http.Error(w, err.Error(), status)
}

// PanicError lets error handlers detect recovered panics.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to see a panicked error value.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
