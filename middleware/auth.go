package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
)

// DefaultSessionCookie is the cookie carrying the session id.
const DefaultSessionCookie = "EDDI_SESSION"

// DefaultPublicPaths are reachable without a session. Matching is by path
// prefix after cleaning.
var DefaultPublicPaths = []string{
	"/auth/login",
	"/auth/signup",
	"/auth/logout",
	"/auth/csrf-token",
	"/api/csrf-token",
	"/q/metrics",
	"/q/health",
	"/chat/unrestricted",
	"/bots/unrestricted",
	"/managedbots",
	"/css",
	"/js",
	"/img",
	"/openapi",
	"/q/swagger-ui",
}

// SessionValidator checks session ids. IsSessionValid refreshes the session.
type SessionValidator interface {
	IsSessionValid(id string) bool
	UsernameOf(id string) (string, bool)
}

type authUsernameContextKey struct{}

// UnauthenticatedBody is the JSON payload for rejected requests.
type UnauthenticatedBody struct {
	Error       string `json:"error"`
	RedirectURL string `json:"redirectUrl"`
}

// AuthGateConfig configures the session gate.
type AuthGateConfig struct {
	Skip func(ctx handler.Context) bool
	// Enabled turns the gate on. A disabled gate lets every request through.
	Enabled bool
	// PublicPaths defaults to DefaultPublicPaths.
	PublicPaths []string
	// CookieName defaults to DefaultSessionCookie.
	CookieName string
	Validator  SessionValidator
	// LoginURL is the redirect hint in rejections (default: "/auth/login").
	LoginURL string
	Logger   *slog.Logger
	// ErrorHandler renders a rejection (default: 401 UnauthenticatedBody).
	ErrorHandler func(ctx handler.Context) handler.Response
}

// AuthGate rejects requests to protected paths that lack a valid session
// cookie. OPTIONS requests always pass. Any failure while checking the
// session rejects the request. It panics without a validator when enabled.
func AuthGate[C handler.Context](cfg AuthGateConfig) handler.Middleware[C] {
	if cfg.Enabled && cfg.Validator == nil {
		panic("auth gate middleware: validator is required")
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = DefaultPublicPaths
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/auth/login"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.ErrorHandler == nil {
		body := UnauthenticatedBody{Error: "Authentication required", RedirectURL: cfg.LoginURL}
		cfg.ErrorHandler = func(handler.Context) handler.Response {
			return response.JSONWithStatus(body, http.StatusUnauthorized)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if !cfg.Enabled || (cfg.Skip != nil && cfg.Skip(ctx)) {
				return next(ctx)
			}

			req := ctx.Request()
			if req.Method == http.MethodOptions || isPublicPath(req.URL.Path, cfg.PublicPaths) {
				return next(ctx)
			}

			username, err := checkSession(req, cfg.CookieName, cfg.Validator)
			if err != nil {
				cfg.Logger.WarnContext(ctx, "session check failed",
					logger.Component("auth_gate"), logger.Path(req.URL.Path), logger.Error(err))
			}
			if username == "" {
				return cfg.ErrorHandler(ctx)
			}

			ctx.SetValue(authUsernameContextKey{}, username)
			return next(ctx)
		}
	}
}

// GetAuthUsername returns the user admitted by AuthGate.
func GetAuthUsername(ctx handler.Context) (string, bool) {
	name, ok := ctx.Value(authUsernameContextKey{}).(string)
	return name, ok
}

// checkSession returns the authenticated username, or "" when the request
// must be rejected. A panic in the validator is converted to an error.
func checkSession(r *http.Request, cookieName string, v SessionValidator) (username string, err error) {
	defer func() {
		if p := recover(); p != nil {
			username, err = "", fmt.Errorf("session validator panicked: %v", p)
		}
	}()

	c, cerr := r.Cookie(cookieName)
	if cerr != nil || c.Value == "" {
		return "", nil
	}
	if !v.IsSessionValid(c.Value) {
		return "", nil
	}

	name, ok := v.UsernameOf(c.Value)
	if !ok || name == "" {
		// Removed between the two calls.
		return "", nil
	}
	return name, nil
}

func isPublicPath(p string, public []string) bool {
	if p == "" {
		p = "/"
	}
	p = path.Clean(p)

	for _, prefix := range public {
		if p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
