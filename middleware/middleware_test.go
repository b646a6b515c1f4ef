package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
	"github.com/labsai/eddiauth/core/router"
	"github.com/labsai/eddiauth/middleware"
	"github.com/labsai/eddiauth/pkg/ratelimiter"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	newRouter := func(cfg middleware.RequestIDConfig) router.Router[*router.Context] {
		r := router.New[*router.Context](router.WithMiddleware(middleware.RequestIDWithConfig[*router.Context](cfg)))
		r.Get("/", func(ctx *router.Context) handler.Response {
			id, _ := middleware.GetRequestID(ctx)
			return response.String(id)
		})
		return r
	}

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()

		w := do(newRouter(middleware.RequestIDConfig{}), http.MethodGet, "/", "")
		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses safe incoming id", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.RequestIDConfig{UseExisting: true})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "upstream-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces unsafe incoming id", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.RequestIDConfig{UseExisting: true})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 200))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
		assert.NoError(t, err)
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	newRouter := func(cfg middleware.ClientIPConfig) router.Router[*router.Context] {
		r := router.New[*router.Context](router.WithMiddleware(middleware.ClientIPWithConfig[*router.Context](cfg)))
		r.Get("/", func(ctx *router.Context) handler.Response {
			ip, _ := middleware.GetClientIP(ctx)
			return response.String(ip)
		})
		return r
	}

	serve := func(r http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		req.Header.Set("X-Forwarded-For", "198.51.100.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("ignores proxy headers by default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "192.0.2.10", serve(newRouter(middleware.ClientIPConfig{})).Body.String())
	})

	t.Run("trusts proxy headers when asked", func(t *testing.T) {
		t.Parallel()

		w := serve(newRouter(middleware.ClientIPConfig{TrustProxyHeaders: true, HeaderName: "X-Client-IP"}))
		assert.Equal(t, "198.51.100.7", w.Body.String())
		assert.Equal(t, "198.51.100.7", w.Header().Get("X-Client-IP"))
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))

	r := router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		router.WithMiddleware(
			middleware.RequestID[*router.Context](),
			middleware.LoggingWithLogger[*router.Context](log),
		),
	)
	r.Post("/auth/login", func(*router.Context) handler.Response {
		return response.Error(response.ErrForbidden)
	})
	r.Get("/boom", func(*router.Context) handler.Response {
		return response.Error(errors.New("db exploded"))
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=admin&password=hunter2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusForbidden, entry["status"])
	assert.Equal(t, "/auth/login", entry["path"])
	assert.NotEmpty(t, entry["request_id"])
	assert.NotContains(t, buf.String(), "hunter2")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "db exploded")
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	newRouter := func(cfg middleware.SecurityHeadersConfig) router.Router[*router.Context] {
		r := router.New[*router.Context](router.WithMiddleware(middleware.SecurityHeadersWithConfig[*router.Context](cfg)))
		r.Get("/", func(*router.Context) handler.Response { return response.String("ok") })
		return r
	}

	w := do(newRouter(middleware.AuthPagesSecurity), http.MethodGet, "/", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "form-action 'self'")
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	dev := middleware.AuthPagesSecurity
	dev.IsDevelopment = true
	dev.CustomHeaders = map[string]string{"X-Service": "eddiauth"}
	w = do(newRouter(dev), http.MethodGet, "/", "")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "eddiauth", w.Header().Get("X-Service"))
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)

	r := router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		router.WithMiddleware(
			middleware.ClientIP[*router.Context](),
			middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
				Limiter:    limiter,
				KeyPrefix:  "login:",
				SetHeaders: true,
				Skip: func(ctx handler.Context) bool {
					return ctx.Request().Method != http.MethodPost
				},
			}),
		),
	)
	ok := func(*router.Context) handler.Response { return response.String("ok") }
	r.Post("/auth/login", ok)
	r.Get("/auth/login", ok)

	serve := func(method, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := range 2 {
		w := serve(http.MethodPost, "192.0.2.1:1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"1", "0"}[i], w.Header().Get("X-RateLimit-Remaining"))
	}

	w := serve(http.MethodPost, "192.0.2.1:1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "192.0.2.1:1").Code, "skipped method")
	assert.Equal(t, http.StatusOK, serve(http.MethodPost, "192.0.2.2:1").Code, "other client")

	assert.Panics(t, func() { middleware.RateLimit[*router.Context](middleware.RateLimitConfig{}) })
}
