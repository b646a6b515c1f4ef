package router

import (
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

// Router is the routing interface used by the application. Patterns follow
// httprouter syntax: ":name" for a segment parameter, "*name" for a catch-all.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Method registers h for each of the given HTTP methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]
}

// Routes provides route introspection for debugging and startup logs.
type Routes interface {
	Routes() []Route
}

// Route describes a single registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router. Custom context types require WithContextFactory.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
