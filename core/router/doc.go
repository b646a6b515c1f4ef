// Package router provides a typed HTTP router on top of httprouter.
//
// Routes receive a custom context type through a context factory. Router-level
// middleware runs for every request, including unmatched ones, so a request gate
// applied with Use protects unknown paths as well:
//
//	r := router.New(router.WithContextFactory(newContext))
//	r.Use(middleware.RequestID[*Context]())
//	r.Get("/auth/login", loginPage)
//
// Errors returned from responses, 404/405 results and recovered panics are passed
// to the configured error handler.
package router
