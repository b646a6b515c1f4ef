package eddiauth

import (
	"github.com/labsai/eddiauth/core/auth"
	"github.com/labsai/eddiauth/core/cookie"
	"github.com/labsai/eddiauth/core/csrf"
	"github.com/labsai/eddiauth/core/server"
	"github.com/labsai/eddiauth/core/session"
	"github.com/labsai/eddiauth/integration/database/mongo"
	"github.com/labsai/eddiauth/integration/database/redis"
)

// Config aggregates the settings of every component.
type Config struct {
	Server  server.Config
	Session session.Config
	CSRF    csrf.Config
	Auth    auth.Config
	Cookie  cookie.Config
	Mongo   mongo.Config
	Redis   redis.Config

	AppName  string `env:"APP_NAME" envDefault:"eddiauth"`
	Env      string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// AuthEnabled turns the session gate on. Off by default so existing
	// deployments keep working until users are provisioned.
	AuthEnabled       bool `env:"AUTH_ENABLED" envDefault:"false"`
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// LoginRateLimit is the number of login or signup attempts per client per
	// minute.
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	// HTTPRateLimit caps all requests per client per minute. Zero disables it.
	HTTPRateLimit int `env:"HTTP_RATE_LIMIT" envDefault:"600"`
}

// DefaultConfig returns the configuration used with an empty environment.
func DefaultConfig() Config {
	return Config{
		Server:         server.DefaultConfig(),
		Session:        session.DefaultConfig(),
		CSRF:           csrf.DefaultConfig(),
		Auth:           auth.DefaultConfig(),
		Cookie:         cookie.DefaultConfig(),
		Mongo:          mongo.Config{Database: "eddi"},
		AppName:        "eddiauth",
		Env:            "production",
		LogLevel:       "info",
		LoginRateLimit: 10,
		HTTPRateLimit:  600,
	}
}

// IsDevelopment reports whether APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
