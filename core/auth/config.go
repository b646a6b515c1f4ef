package auth

import "time"

const (
	// AdminUsername and DemoUsername are the bootstrap accounts.
	AdminUsername = "admin"
	DemoUsername  = "user"

	// DefaultLastLoginTimeout bounds the background last-login write.
	DefaultLastLoginTimeout = 5 * time.Second
)

// Config holds environment-based authentication settings.
type Config struct {
	// BootstrapEnabled seeds the admin and demo accounts at startup. The
	// default passwords are weak; override them in any shared deployment.
	BootstrapEnabled       bool          `env:"AUTH_BOOTSTRAP_ENABLED" envDefault:"false"`
	BootstrapAdminPassword string        `env:"AUTH_BOOTSTRAP_ADMIN_PASSWORD" envDefault:"admin"`
	BootstrapUserPassword  string        `env:"AUTH_BOOTSTRAP_USER_PASSWORD" envDefault:"user"`
	BcryptCost             int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	LastLoginTimeout       time.Duration `env:"AUTH_LAST_LOGIN_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns the default authentication configuration.
func DefaultConfig() Config {
	return Config{
		BootstrapAdminPassword: "admin",
		BootstrapUserPassword:  "user",
		BcryptCost:             12,
		LastLoginTimeout:       DefaultLastLoginTimeout,
	}
}

// Accounts returns the bootstrap accounts cfg enables, or nil.
func (c Config) Accounts() []Account {
	if !c.BootstrapEnabled {
		return nil
	}
	return []Account{
		{Username: AdminUsername, Password: c.BootstrapAdminPassword},
		{Username: DemoUsername, Password: c.BootstrapUserPassword},
	}
}
