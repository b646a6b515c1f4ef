package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/response"
	"github.com/labsai/eddiauth/pkg/ratelimiter"
)

// RateLimitConfig configures the token bucket middleware.
type RateLimitConfig struct {
	Skip    func(ctx handler.Context) bool
	Limiter ratelimiter.RateLimiter
	// KeyExtractor picks the bucket (default: client IP).
	KeyExtractor func(ctx handler.Context) string
	// KeyPrefix separates buckets of limiters sharing one store.
	KeyPrefix string
	// ErrorHandler renders a rejection (default: 429 with retry_after).
	ErrorHandler func(ctx handler.Context, result *ratelimiter.Result) handler.Response
	SetHeaders   bool
}

// RateLimit rejects requests whose bucket is empty. It panics without a
// limiter.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return ctx.Request().RemoteAddr
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ handler.Context, result *ratelimiter.Result) handler.Response {
			err := response.ErrTooManyRequests
			if secs := int(result.RetryAfter().Seconds()); secs > 0 {
				err = err.WithDetails(map[string]any{"retry_after": secs})
			}
			return response.Error(err)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			result, err := cfg.Limiter.Allow(ctx, cfg.KeyPrefix+cfg.KeyExtractor(ctx))
			if err != nil {
				return response.Error(errors.Join(response.ErrInternalServerError, err))
			}

			var resp handler.Response
			if result.Allowed() {
				resp = next(ctx)
			} else {
				resp = cfg.ErrorHandler(ctx, result)
			}

			if cfg.SetHeaders {
				return withRateLimitHeaders(resp, result)
			}
			return resp
		}
	}
}

func withRateLimitHeaders(resp handler.Response, result *ratelimiter.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		if !result.Allowed() {
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(result.RetryAfter().Seconds()))))
		}
		return resp(w, r)
	}
}
