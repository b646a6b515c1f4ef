package middleware

import (
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	Skip func(ctx handler.Context) bool
	// TrustProxyHeaders reads forwarding headers. Enable only behind a proxy
	// that overwrites them.
	TrustProxyHeaders bool
	// HeaderName, when set, echoes the resolved address in the response.
	HeaderName string
}

// ClientIP stores the peer address in the context, ignoring proxy headers.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

// ClientIPWithConfig resolves the client address per cfg.
func ClientIPWithConfig[C handler.Context](cfg ClientIPConfig) handler.Middleware[C] {
	resolve := clientip.RemoteIP
	if cfg.TrustProxyHeaders {
		resolve = clientip.GetIP
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			ip := resolve(ctx.Request())
			ctx.SetValue(clientIPContextKey{}, ip)
			resp := next(ctx)

			if cfg.HeaderName == "" {
				return resp
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, ip)
				return resp(w, r)
			}
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
