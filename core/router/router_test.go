package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/router"
)

func text(s string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(s))
		return err
	}
}

func TestRouterImplementsHTTPHandler(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	var _ http.Handler = r

	assert.Empty(t, r.Routes())
}

func TestRouterHTTPMethods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		register func(router.Router[*router.Context], string, handler.HandlerFunc[*router.Context])
	}{
		{http.MethodGet, func(r router.Router[*router.Context], p string, h handler.HandlerFunc[*router.Context]) { r.Get(p, h) }},
		{http.MethodPost, func(r router.Router[*router.Context], p string, h handler.HandlerFunc[*router.Context]) { r.Post(p, h) }},
		{http.MethodPut, func(r router.Router[*router.Context], p string, h handler.HandlerFunc[*router.Context]) { r.Put(p, h) }},
		{http.MethodDelete, func(r router.Router[*router.Context], p string, h handler.HandlerFunc[*router.Context]) {
			r.Delete(p, h)
		}},
		{http.MethodPatch, func(r router.Router[*router.Context], p string, h handler.HandlerFunc[*router.Context]) {
			r.Patch(p, h)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			r := router.New[*router.Context]()
			tt.register(r, "/test", func(ctx *router.Context) handler.Response {
				return text(ctx.Request().Method)
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
			assert.Equal(t, []router.Route{{Method: tt.method, Pattern: "/test"}}, r.Routes())
		})
	}
}

func TestRouterParams(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/users/:name", func(ctx *router.Context) handler.Response {
		return text(ctx.Param("name"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/alice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "alice", w.Body.String())
}

func TestRouterMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("root middleware runs for unmatched routes", func(t *testing.T) {
		t.Parallel()

		var calls int
		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				calls++
				return next(ctx)
			}
		})
		r.Get("/known", func(ctx *router.Context) handler.Response { return text("ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("middleware can short-circuit", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				return text("blocked")
			}
		})
		r.Get("/x", func(ctx *router.Context) handler.Response { return text("reached") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, "blocked", w.Body.String())
	})

	t.Run("with applies only to its routes in order", func(t *testing.T) {
		t.Parallel()

		tag := func(s string) handler.Middleware[*router.Context] {
			return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
				return func(ctx *router.Context) handler.Response {
					resp := next(ctx)
					return func(w http.ResponseWriter, r *http.Request) error {
						w.Header().Add("X-Tag", s)
						return resp(w, r)
					}
				}
			}
		}

		r := router.New[*router.Context]()
		r.Group(func(g router.Router[*router.Context]) {
			g.With(tag("a"), tag("b")).Get("/tagged", func(ctx *router.Context) handler.Response { return text("t") })
		})
		r.Get("/plain", func(ctx *router.Context) handler.Response { return text("p") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tagged", nil))
		assert.Equal(t, []string{"a", "b"}, w.Header().Values("X-Tag"))

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
		assert.Empty(t, w.Header().Values("X-Tag"))
	})

	t.Run("use after routes panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/x", func(ctx *router.Context) handler.Response { return text("x") })
		assert.Panics(t, func() { r.Use() })
	})
}

func TestRouterErrors(t *testing.T) {
	t.Parallel()

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/only-get", func(ctx *router.Context) handler.Response { return text("x") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/only-get", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("error handler receives response errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var got error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))
		r.Get("/err", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error { return boom }
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))

		assert.ErrorIs(t, got, boom)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("recovers panics", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}))
		r.Get("/panic", func(ctx *router.Context) handler.Response { panic("kaboom") })

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		})

		var pe router.PanicError
		require.ErrorAs(t, got, &pe)
		assert.Equal(t, "kaboom", pe.Value())
		assert.NotEmpty(t, pe.Stack())
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) { got = err }))
		r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nil", nil))
		assert.ErrorIs(t, got, router.ErrNilResponse)
	})

	t.Run("invalid pattern panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Get("no-slash", func(ctx *router.Context) handler.Response { return text("x") })
		})
		assert.Panics(t, func() {
			r.Method("/x", func(ctx *router.Context) handler.Response { return text("x") }, "BREW")
		})
	})
}

func TestContextSetValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.SetValue(key{}, "v")
			return next(ctx)
		}
	})
	r.Get("/v", func(ctx *router.Context) handler.Response {
		v, _ := ctx.Value(key{}).(string)
		return text(v)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v", nil))
	assert.Equal(t, "v", w.Body.String())
}
