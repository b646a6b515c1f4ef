package csrf

import "time"

const (
	// DefaultValidity is how long an issued token stays usable.
	DefaultValidity = 30 * time.Minute
	// DefaultCleanupInterval is the period of the background sweep.
	DefaultCleanupInterval = 5 * time.Minute
	// TokenBytes is the entropy of a token before encoding.
	TokenBytes = 32
)

// Config holds environment-based CSRF settings.
type Config struct {
	Validity        time.Duration `env:"CSRF_VALIDITY" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CSRF_CLEANUP_INTERVAL" envDefault:"5m"`
	// Store selects the token backend: "memory" or "redis".
	Store       string `env:"CSRF_STORE" envDefault:"memory"`
	RedisPrefix string `env:"CSRF_REDIS_PREFIX" envDefault:"eddi:csrf:"`
}

// DefaultConfig returns the default CSRF configuration.
func DefaultConfig() Config {
	return Config{
		Validity:        DefaultValidity,
		CleanupInterval: DefaultCleanupInterval,
		Store:           "memory",
		RedisPrefix:     "eddi:csrf:",
	}
}

// NewFromConfig creates a Service over store using cfg. Explicit options win.
func NewFromConfig(cfg Config, store Store, opts ...Option) *Service {
	configOpts := []Option{
		WithValidity(cfg.Validity),
		WithCleanupInterval(cfg.CleanupInterval),
	}
	return New(store, append(configOpts, opts...)...)
}
