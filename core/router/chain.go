package router

import "github.com/labsai/eddiauth/core/handler"

// chain builds a single handler from a middleware stack and endpoint.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	return handler.Chain(endpoint, middlewares...)
}
