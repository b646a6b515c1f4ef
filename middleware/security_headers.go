package middleware

import (
	"maps"
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

// SecurityHeadersConfig lists response headers to set. Empty values are
// omitted.
type SecurityHeadersConfig struct {
	Skip func(ctx handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string
	CustomHeaders           map[string]string

	// IsDevelopment drops HSTS so plain-http localhost keeps working.
	IsDevelopment bool
}

// AuthPagesSecurity suits server-rendered login forms without scripts.
var AuthPagesSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ContentSecurityPolicy:   "default-src 'self'; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'; form-action 'self'; base-uri 'self'",
	ReferrerPolicy:          "no-referrer",
	PermissionsPolicy:       "geolocation=(), microphone=(), camera=()",
	CrossOriginOpenerPolicy: "same-origin",
}

// SecurityHeaders applies AuthPagesSecurity.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](AuthPagesSecurity)
}

// SecurityHeadersWithConfig sets the headers in cfg on every response.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":     cfg.ContentTypeOptions,
		"X-Frame-Options":            cfg.FrameOptions,
		"Strict-Transport-Security":  cfg.StrictTransportSecurity,
		"Content-Security-Policy":    cfg.ContentSecurityPolicy,
		"Referrer-Policy":            cfg.ReferrerPolicy,
		"Permissions-Policy":         cfg.PermissionsPolicy,
		"Cross-Origin-Opener-Policy": cfg.CrossOriginOpenerPolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				for k, v := range headers {
					w.Header().Set(k, v)
				}
				return resp(w, r)
			}
		}
	}
}
