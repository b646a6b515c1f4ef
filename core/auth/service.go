package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/pkg/async"
	"github.com/labsai/eddiauth/pkg/passhash"
)

const (
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// Account is a username and plaintext password used for seeding.
type Account struct {
	Username string
	Password string
}

// Service verifies credentials, manages user records and delegates session
// bookkeeping to a SessionStore.
type Service struct {
	users            UserStore
	sessions         SessionStore
	hasher           *passhash.Hasher
	logger           *slog.Logger
	now              func() time.Time
	lastLoginTimeout time.Duration
	bootstrap        []Account

	dummyOnce sync.Once
	dummyHash string
}

// Option configures a Service.
type Option func(*Service)

// WithHasher sets the password hasher.
func WithHasher(h *passhash.Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLastLoginTimeout bounds the background last-login update.
func WithLastLoginTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lastLoginTimeout = d
		}
	}
}

// WithBootstrapAccounts sets the accounts Bootstrap seeds.
func WithBootstrapAccounts(accounts ...Account) Option {
	return func(s *Service) {
		s.bootstrap = accounts
	}
}

// New creates a Service. It panics if users or sessions is nil.
func New(users UserStore, sessions SessionStore, opts ...Option) *Service {
	if users == nil {
		panic("auth: user store is required")
	}
	if sessions == nil {
		panic("auth: session store is required")
	}

	s := &Service{
		users:            users,
		sessions:         sessions,
		hasher:           passhash.New(),
		logger:           logger.Nop(),
		now:              time.Now,
		lastLoginTimeout: DefaultLastLoginTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a Service using cfg. Explicit options win.
func NewFromConfig(cfg Config, users UserStore, sessions SessionStore, opts ...Option) *Service {
	configOpts := []Option{
		WithHasher(passhash.New(passhash.WithCost(cfg.BcryptCost))),
		WithLastLoginTimeout(cfg.LastLoginTimeout),
		WithBootstrapAccounts(cfg.Accounts()...),
	}
	return New(users, sessions, append(configOpts, opts...)...)
}

// Authenticate reports whether password is correct for an active user.
// Unknown users, wrong passwords and store failures all yield false.
//
// A correct password stored in the legacy format, or as bcrypt with a lower
// cost than configured, is re-hashed and saved. That write and the last-login
// update are best effort and never change the result.
func (s *Service) Authenticate(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "user lookup failed",
				logger.Component("auth"), logger.Username(username), logger.Error(err))
		}
		s.burnVerify(password)
		return false
	}
	if user == nil || !user.Active || user.PasswordHash == "" {
		s.burnVerify(password)
		return false
	}

	if passhash.IsLegacy(user.PasswordHash) {
		if !passhash.VerifyLegacy(password, user.PasswordHash) {
			return false
		}
	} else if !s.hasher.Verify(password, user.PasswordHash) {
		return false
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}
	s.recordLogin(ctx, user.Username)

	return true
}

// Login authenticates and opens a session, returning its id.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.Authenticate(ctx, username, password) {
		return "", ErrUnauthorized
	}

	id, err := s.sessions.Create(username)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		logger.Component("auth"), logger.Event("login"), logger.Username(username))
	return id, nil
}

// Logout removes the session id.
func (s *Service) Logout(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if name, ok := s.sessions.UsernameOf(id); ok {
		s.logger.InfoContext(ctx, "user logged out",
			logger.Component("auth"), logger.Event("logout"), logger.Username(name))
	}
	s.sessions.Invalidate(id)
}

// AddUser creates an active account with a freshly hashed password.
func (s *Service) AddUser(ctx context.Context, username, password, email string) error {
	if username == "" {
		return errors.Join(ErrInvalidInput, errors.New("username is required"))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, passhash.ErrEmptyPassword) || errors.Is(err, passhash.ErrPasswordTooLong) {
			return errors.Join(ErrInvalidInput, err)
		}
		return errors.Join(ErrInternal, err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Active:       true,
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrAlreadyExists
		}
		s.logger.ErrorContext(ctx, "user create failed",
			logger.Component("auth"), logger.Username(username), logger.Error(err))
		return errors.Join(ErrStore, err)
	}

	s.logger.InfoContext(ctx, "user created",
		logger.Component("auth"), logger.Event("signup"), logger.Username(username))
	return nil
}

// UserExists reports whether username is registered. Store failures count as
// absent.
func (s *Service) UserExists(ctx context.Context, username string) bool {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "user lookup failed",
				logger.Component("auth"), logger.Username(username), logger.Error(err))
		}
		return false
	}
	return user != nil
}

// DeleteUser removes username.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Bootstrap seeds the configured accounts that do not exist yet.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, acc := range s.bootstrap {
		if s.UserExists(ctx, acc.Username) {
			continue
		}

		err := s.AddUser(ctx, acc.Username, acc.Password, "")
		switch {
		case err == nil:
			if acc.Password == acc.Username {
				s.logger.WarnContext(ctx, "bootstrap account uses its default password; rotate it",
					logger.Component("auth"), logger.Username(acc.Username))
			} else {
				s.logger.InfoContext(ctx, "bootstrap account created",
					logger.Component("auth"), logger.Username(acc.Username))
			}
		case errors.Is(err, ErrAlreadyExists):
			// created concurrently by another instance
		default:
			return err
		}
	}
	return nil
}

// CreateSession opens a session for username.
func (s *Service) CreateSession(username string) (string, error) {
	return s.sessions.Create(username)
}

// IsSessionValid reports whether id is a live session and refreshes it.
func (s *Service) IsSessionValid(id string) bool {
	return s.sessions.IsValid(id)
}

// InvalidateSession removes id.
func (s *Service) InvalidateSession(id string) {
	s.sessions.Invalidate(id)
}

// UsernameOf returns the user bound to id without refreshing it.
func (s *Service) UsernameOf(id string) (string, bool) {
	return s.sessions.UsernameOf(id)
}

// ValidateSignup checks registration fields.
func ValidateSignup(username, password, confirm string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func (s *Service) rehash(ctx context.Context, user *User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.WarnContext(ctx, "password rehash failed",
			logger.Component("auth"), logger.Username(user.Username), logger.Error(err))
		return
	}

	updated := *user
	updated.PasswordHash = hash
	if err := s.users.Update(ctx, &updated); err != nil {
		s.logger.WarnContext(ctx, "password migration not saved",
			logger.Component("auth"), logger.Username(user.Username), logger.Error(err))
		return
	}

	s.logger.InfoContext(ctx, "password hash migrated",
		logger.Component("auth"), logger.Username(user.Username))
}

func (s *Service) recordLogin(ctx context.Context, username string) {
	at := s.now()
	async.Detach(ctx, s.lastLoginTimeout, username, func(ctx context.Context, name string) error {
		if err := s.users.UpdateLastLogin(ctx, name, at); err != nil {
			s.logger.WarnContext(ctx, "last login update failed",
				logger.Component("auth"), logger.Username(name), logger.Error(err))
			return err
		}
		return nil
	})
}

// burnVerify spends a bcrypt comparison so unknown users take as long as
// wrong passwords.
func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	if s.dummyHash != "" {
		s.hasher.Verify(password, s.dummyHash)
	}
}
