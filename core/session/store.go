package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labsai/eddiauth/core/logger"
)

// Store is a concurrency-safe in-memory session table.
type Store struct {
	idleTimeout     time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	logger          *slog.Logger

	mu      sync.Mutex
	entries map[string]Entry

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	running   atomic.Bool

	created atomic.Int64
	expired atomic.Int64
}

// Stats reports session counters.
type Stats struct {
	Active    int
	Created   int64
	Expired   int64
	IsRunning bool
}

// Option configures a Store.
type Option func(*Store)

// WithIdleTimeout sets the inactivity limit after which a session expires.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithCleanupInterval sets the background sweep period.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.cleanupInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		idleTimeout:     DefaultIdleTimeout,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		logger:          logger.Nop(),
		entries:         make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IdleTimeout returns the configured inactivity limit.
func (s *Store) IdleTimeout() time.Duration {
	return s.idleTimeout
}

// Create starts a session for username and returns its id. Expired sessions
// are pruned on the way out.
func (s *Store) Create(username string) (string, error) {
	if username == "" {
		return "", ErrEmptyUsername
	}

	id, err := generateID()
	if err != nil {
		return "", err
	}

	now := s.now()
	s.mu.Lock()
	s.entries[id] = Entry{Username: username, CreatedAt: now, LastAccessedAt: now}
	s.mu.Unlock()

	s.created.Add(1)
	s.DeleteExpired()
	return id, nil
}

// IsValid reports whether id names a live session. A live session has its
// last access refreshed; an idle-expired one is removed. Both happen under a
// single lock so a refresh never races a removal.
func (s *Store) IsValid(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return false
	}

	now := s.now()
	if entry.IsExpired(now, s.idleTimeout) {
		delete(s.entries, id)
		s.expired.Add(1)
		return false
	}

	entry.LastAccessedAt = now
	s.entries[id] = entry
	return true
}

// Invalidate removes id. Removing an unknown id is a no-op.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// UsernameOf returns the user bound to id without checking expiry or
// refreshing the session.
func (s *Store) UsernameOf(id string) (string, bool) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	s.mu.Unlock()
	return entry.Username, ok
}

// Get returns a copy of the entry for id without refreshing it.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	s.mu.Unlock()
	return entry, ok
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// DeleteExpired removes every idle-expired session and returns the count.
func (s *Store) DeleteExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.IsExpired(now, s.idleTimeout) {
			delete(s.entries, id)
			removed++
		}
	}
	s.expired.Add(int64(removed))
	return removed
}

// Start runs the background sweep until ctx is cancelled or Stop is called.
// It blocks.
func (s *Store) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	if s.cancel != nil {
		s.lifecycle.Unlock()
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.lifecycle.Unlock()

	s.running.Store(true)
	defer func() {
		s.running.Store(false)
		s.lifecycle.Lock()
		s.cancel = nil
		s.lifecycle.Unlock()
	}()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.DeleteExpired(); removed > 0 {
				s.logger.DebugContext(ctx, "session sweep removed expired sessions",
					logger.Component("session"), logger.Count("removed", removed))
			}
		}
	}
}

// Stop cancels a running sweep.
func (s *Store) Stop() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.cancel == nil {
		return ErrNotStarted
	}
	s.cancel()
	s.cancel = nil
	return nil
}

// Run adapts Start for errgroup; it returns nil on normal shutdown.
func (s *Store) Run(ctx context.Context) func() error {
	return func() error {
		err := s.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	return Stats{
		Active:    s.Len(),
		Created:   s.created.Load(),
		Expired:   s.expired.Load(),
		IsRunning: s.running.Load(),
	}
}

func generateID() (string, error) {
	b := make([]byte, IDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
