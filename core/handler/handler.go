package handler

import "net/http"

// Response renders an HTTP response. It sets headers, status code and body.
// A returned error is passed to the router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a request handler bound to a concrete context type.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler turns an error raised while handling a request into a response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler with cross-cutting behaviour such as logging
// or authentication checks.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain composes middlewares around an endpoint. The first middleware in the
// slice becomes the outermost wrapper.
func Chain[C Context](endpoint HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
