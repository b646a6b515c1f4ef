package csrf

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labsai/eddiauth/core/logger"
)

// tokenPattern bounds accepted input before it reaches the store.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{43,128}$`)

// Service issues and validates single-use CSRF tokens.
type Service struct {
	store           Store
	validity        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	logger          *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running atomic.Bool

	issued    atomic.Int64
	validated atomic.Int64
	rejected  atomic.Int64
	pruned    atomic.Int64
}

// Stats reports token counters since the service was created.
type Stats struct {
	Issued    int64
	Validated int64
	Rejected  int64
	Pruned    int64
	IsRunning bool
}

// Option configures a Service.
type Option func(*Service)

// WithValidity sets how long tokens remain valid.
func WithValidity(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.validity = d
		}
	}
}

// WithCleanupInterval sets the background sweep period.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cleanupInterval = d
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

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service backed by store.
func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("csrf: store is required")
	}

	s := &Service{
		store:           store,
		validity:        DefaultValidity,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validity returns the token validity window.
func (s *Service) Validity() time.Duration {
	return s.validity
}

// Issue generates and stores a new token. Expired tokens are pruned as a side
// effect; pruning failures are logged and do not fail the call.
func (s *Service) Issue(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	if err := s.store.Save(ctx, token, s.now(), s.validity); err != nil {
		return "", err
	}
	s.issued.Add(1)

	if _, err := s.Prune(ctx); err != nil {
		s.logger.WarnContext(ctx, "csrf prune failed", logger.Component("csrf"), logger.Error(err))
	}

	return token, nil
}

// Validate consumes token. It returns true at most once per issued token and
// only within the validity window. Any store failure yields false.
func (s *Service) Validate(ctx context.Context, token string) bool {
	if token == "" || !tokenPattern.MatchString(token) {
		s.rejected.Add(1)
		return false
	}

	issuedAt, found, err := s.store.Take(ctx, token)
	if err != nil {
		s.logger.ErrorContext(ctx, "csrf token lookup failed",
			logger.Component("csrf"),
			logger.Key("token", Mask(token)),
			logger.Error(err),
		)
		s.rejected.Add(1)
		return false
	}

	if !found || s.now().Sub(issuedAt) >= s.validity {
		s.rejected.Add(1)
		return false
	}

	s.validated.Add(1)
	return true
}

// Prune removes tokens that have outlived the validity window.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now().Add(-s.validity))
	if removed > 0 {
		s.pruned.Add(removed)
	}
	return removed, err
}

// Start runs the background sweep until ctx is cancelled or Stop is called.
// It blocks.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.running.Store(true)
	defer func() {
		s.running.Store(false)
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed, err := s.Prune(ctx); err != nil {
				s.logger.WarnContext(ctx, "csrf sweep failed", logger.Component("csrf"), logger.Error(err))
			} else if removed > 0 {
				s.logger.DebugContext(ctx, "csrf sweep removed expired tokens",
					logger.Component("csrf"), logger.Count("removed", int(removed)))
			}
		}
	}
}

// Stop cancels a running sweep.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return ErrNotStarted
	}
	s.cancel()
	s.cancel = nil
	return nil
}

// Run adapts Start for errgroup; it returns nil on normal shutdown.
func (s *Service) Run(ctx context.Context) func() error {
	return func() error {
		err := s.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	return Stats{
		Issued:    s.issued.Load(),
		Validated: s.validated.Load(),
		Rejected:  s.rejected.Load(),
		Pruned:    s.pruned.Load(),
		IsRunning: s.running.Load(),
	}
}

// Mask returns a log-safe prefix of token.
func Mask(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "..."
}

func generateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
