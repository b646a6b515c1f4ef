// Package middleware provides the HTTP middleware the auth service runs in
// front of its handlers: request ids, client IP extraction, access logging,
// security headers, token bucket rate limiting and the session gate.
//
// All middleware follows the same pattern:
//   - generic over a handler.Context type parameter
//   - a configuration struct with an optional Skip func
//   - a default constructor and a WithConfig constructor
//   - Get helpers for values stored in the request context
//
// # Session gate
//
// AuthGate rejects requests to protected paths without a valid EDDI_SESSION
// cookie. Rejections render 401 with a JSON body pointing at the login page:
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*router.Context](),
//			middleware.ClientIP[*router.Context](),
//			middleware.LoggingWithLogger[*router.Context](log),
//			middleware.AuthGate[*router.Context](middleware.AuthGateConfig{
//				Enabled:   true,
//				Validator: authService,
//			}),
//		),
//	)
//
// Public paths are matched by whole path segments after cleaning, so
// "/css/app.css" is public under "/css" but "/cssx" is not. OPTIONS requests
// always pass. A validator that panics rejects the request.
//
// # Client IP
//
// ClientIP uses the connection's remote address unless TrustProxyHeaders is
// set. Only trust proxy headers behind a proxy that overwrites them.
//
// # Rate limiting
//
// RateLimit consumes one token per request from a pkg/ratelimiter bucket keyed
// by client IP. With SetHeaders it adds:
//   - X-RateLimit-Limit
//   - X-RateLimit-Remaining
//   - X-RateLimit-Reset as a unix timestamp
//   - Retry-After in seconds on rejection
//
// # Logging
//
// Logging writes one line per request after the response is rendered. Request
// bodies are never logged.
package middleware
