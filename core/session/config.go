package session

import "time"

const (
	// DefaultIdleTimeout is how long a session survives without access.
	DefaultIdleTimeout = time.Hour
	// DefaultCleanupInterval is the period of the background sweep.
	DefaultCleanupInterval = 10 * time.Minute
	// IDBytes is the entropy of a session id before encoding.
	IDBytes = 32
)

// Config holds environment-based session settings.
type Config struct {
	IdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"1h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:     DefaultIdleTimeout,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// NewFromConfig creates a Store using cfg. Explicit options win.
func NewFromConfig(cfg Config, opts ...Option) *Store {
	configOpts := []Option{
		WithIdleTimeout(cfg.IdleTimeout),
		WithCleanupInterval(cfg.CleanupInterval),
	}
	return New(append(configOpts, opts...)...)
}
