package handler

import (
	"context"
	"net/http"
)

// Context is the request context every handler and middleware receives.
// Implementations delegate context.Context to the underlying request.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	// SetValue stores a request-scoped value readable through Value.
	SetValue(key, val any)
}
