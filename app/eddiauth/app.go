package eddiauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"golang.org/x/sync/errgroup"

	"github.com/labsai/eddiauth/core/auth"
	"github.com/labsai/eddiauth/core/cookie"
	"github.com/labsai/eddiauth/core/csrf"
	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/health"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
	"github.com/labsai/eddiauth/core/router"
	"github.com/labsai/eddiauth/core/server"
	"github.com/labsai/eddiauth/core/session"
	"github.com/labsai/eddiauth/core/userstore"
	"github.com/labsai/eddiauth/middleware"
	"github.com/labsai/eddiauth/pkg/ratelimiter"
)

// App wires the auth components behind an HTTP router.
type App struct {
	config Config
	logger *slog.Logger

	router  router.Router[*Context]
	handler http.Handler
	server  *server.Server

	users       auth.UserStore
	csrfStore   csrf.Store
	checks      []health.Check
	authOptions []auth.Option

	sessions     *session.Store
	csrf         *csrf.Service
	auth         *auth.Service
	cookie       *cookie.Manager
	cookieName   string
	limiterStore *ratelimiter.MemoryStore
	loginLimiter ratelimiter.RateLimiter
}

type AppOption func(*App) error

// New builds the application from cfg. Without WithUserStore and
// WithCSRFStore it keeps users and tokens in memory.
func New(cfg Config, opts ...AppOption) (*App, error) {
	app := &App{
		config:     cfg,
		logger:     logger.Nop(),
		cookieName: middleware.DefaultSessionCookie,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.users == nil {
		app.users = userstore.NewMemory()
	}
	if app.csrfStore == nil {
		app.csrfStore = csrf.NewMemoryStore()
	}

	app.sessions = session.NewFromConfig(cfg.Session, session.WithLogger(app.logger))
	app.csrf = csrf.NewFromConfig(cfg.CSRF, app.csrfStore, csrf.WithLogger(app.logger))
	app.auth = auth.NewFromConfig(cfg.Auth, app.users, app.sessions,
		append([]auth.Option{auth.WithLogger(app.logger)}, app.authOptions...)...)

	cm, err := cookie.NewFromConfig(cfg.Cookie, cookie.WithMaxAge(int(app.sessions.IdleTimeout().Seconds())))
	if err != nil {
		return nil, err
	}
	app.cookie = cm

	app.limiterStore = ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(app.logger))
	if cfg.LoginRateLimit > 0 {
		limiter, err := ratelimiter.NewBucket(app.limiterStore, ratelimiter.Config{
			Capacity:       cfg.LoginRateLimit,
			RefillRate:     cfg.LoginRateLimit,
			RefillInterval: time.Minute,
		})
		if err != nil {
			return nil, err
		}
		app.loginLimiter = limiter
	}

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	app.router = app.routes()
	app.handler = app.router
	if cfg.HTTPRateLimit > 0 {
		app.handler = app.throttle(app.router)
	}

	return app, nil
}

func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithUserStore replaces the in-memory user store.
func WithUserStore(users auth.UserStore) AppOption {
	return func(app *App) error {
		if users == nil {
			return errors.New("user store cannot be nil")
		}
		app.users = users
		return nil
	}
}

// WithCSRFStore replaces the in-memory token store.
func WithCSRFStore(store csrf.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("csrf store cannot be nil")
		}
		app.csrfStore = store
		return nil
	}
}

// WithHealthCheck adds a readiness check.
func WithHealthCheck(name string, fn func(context.Context) error) AppOption {
	return func(app *App) error {
		if fn == nil {
			return errors.New("health check cannot be nil")
		}
		app.checks = append(app.checks, health.Check{Name: name, Fn: fn})
		return nil
	}
}

// WithAuthOptions passes extra options to the authentication service.
func WithAuthOptions(opts ...auth.Option) AppOption {
	return func(app *App) error {
		app.authOptions = append(app.authOptions, opts...)
		return nil
	}
}

func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Auth returns the authentication service.
func (a *App) Auth() *auth.Service { return a.auth }

// CSRF returns the token service.
func (a *App) CSRF() *csrf.Service { return a.csrf }

// Sessions returns the session store.
func (a *App) Sessions() *session.Store { return a.sessions }

// Run seeds the bootstrap accounts, then serves HTTP and runs the
// background sweeps until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.auth.Bootstrap(ctx); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "starting eddiauth",
		logger.Component("eddiauth"),
		logger.Key("auth_enabled", a.config.AuthEnabled),
		logger.Count("routes", len(a.router.Routes())))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.handler))
	g.Go(a.sessions.Run(ctx))
	g.Go(a.csrf.Run(ctx))
	g.Go(a.limiterStore.Run(ctx))
	return g.Wait()
}

func (a *App) routes() router.Router[*Context] {
	security := middleware.AuthPagesSecurity
	security.IsDevelopment = a.config.IsDevelopment()

	r := router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithErrorHandler(errorHandler(a.logger)),
		router.WithLogger[*Context](a.logger),
		router.WithMiddleware(
			middleware.RequestID[*Context](),
			middleware.ClientIPWithConfig[*Context](middleware.ClientIPConfig{
				TrustProxyHeaders: a.config.TrustProxyHeaders,
			}),
			middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{Logger: a.logger}),
			middleware.SecurityHeadersWithConfig[*Context](security),
			middleware.AuthGate[*Context](middleware.AuthGateConfig{
				Enabled:    a.config.AuthEnabled,
				CookieName: a.cookieName,
				Validator:  a.auth,
				LoginURL:   loginPath,
				Logger:     a.logger,
			}),
		),
	)

	limited := r
	if a.loginLimiter != nil {
		limited = r.With(middleware.RateLimit[*Context](middleware.RateLimitConfig{
			Limiter:    a.loginLimiter,
			KeyPrefix:  "auth:",
			SetHeaders: true,
			ErrorHandler: func(handler.Context, *ratelimiter.Result) handler.Response {
				return fail(failure{status: http.StatusTooManyRequests, msg: "Too many attempts. Please try again later."})
			},
		}))
	}

	r.Get(loginPath, a.loginPage)
	limited.Post(loginPath, a.login)
	r.Get(signupPath, a.signupPage)
	limited.Post(signupPath, a.signup)
	r.Post("/auth/logout", a.logout)
	r.Post("/logout", a.logout)

	r.Get("/auth/csrf-token", a.csrfToken)
	r.Get("/api/csrf-token", a.plainCSRFToken)

	r.Get("/logout/userAuthenticated", a.userAuthenticated)
	r.Get("/logout/securityType", a.securityType)
	r.Get("/api/me", a.me)

	r.Get("/q/health/live", health.Liveness[*Context])
	r.Get("/q/health/ready", health.Readiness[*Context](a.logger, a.checks...))

	return r
}

// throttle caps requests per client across all routes.
func (a *App) throttle(next http.Handler) http.Handler {
	key := httprate.KeyByIP
	if a.config.TrustProxyHeaders {
		key = httprate.KeyByRealIP
	}

	return httprate.Limit(a.config.HTTPRateLimit, time.Minute,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			body := Result{Success: false, Message: "Too many requests"}
			_ = response.JSONWithStatus(body, http.StatusTooManyRequests)(w, r)
		}),
	)(next)
}
