// Package handler defines the request processing contract shared by the router,
// middleware and application handlers.
//
// A handler receives a typed context and returns a Response closure. Rendering is
// deferred until the router executes the closure, which lets middleware decorate
// responses (add headers, cookies) after the handler has run:
//
//	func hello(ctx *eddiauth.Context) handler.Response {
//		return response.JSON(map[string]string{"hello": "world"})
//	}
package handler
