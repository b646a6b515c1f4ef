package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labsai/eddiauth/core/logger"
)

// staleAfter is how long an untouched bucket survives the sweep.
const staleAfter = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	cleanupInterval time.Duration
	now             func() time.Time
	logger          *slog.Logger

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	running   atomic.Bool

	bucketsCreated atomic.Int64
	bucketsRemoved atomic.Int64
}

// MemoryStoreStats reports bucket counters.
type MemoryStoreStats struct {
	BucketsCreated int64
	BucketsRemoved int64
	ActiveBuckets  int
	IsRunning      bool
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the sweep period.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.cleanupInterval = d
		}
	}
}

// WithMemoryStoreClock replaces time.Now, for tests.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// WithMemoryStoreLogger sets the logger.
func WithMemoryStoreLogger(l *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if l != nil {
			ms.logger = l
		}
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucket),
		cleanupInterval: 5 * time.Minute,
		now:             time.Now,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens implements Store.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
		ms.bucketsCreated.Add(1)
	}
	b.lastAccess = now

	// Cap the interval count so a long-idle bucket cannot overflow.
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	if intervals := int(min(int64(now.Sub(b.lastRefill)/config.RefillInterval), maxIntervals)); intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	resetAt := b.lastRefill.Add(config.RefillInterval)
	if b.tokens < tokens {
		return b.tokens - tokens, resetAt, nil
	}

	b.tokens -= tokens
	return b.tokens, resetAt, nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// RemoveStale drops buckets untouched for an hour and returns the count.
func (ms *MemoryStore) RemoveStale() int {
	now := ms.now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}
	ms.bucketsRemoved.Add(int64(removed))
	return removed
}

// Start runs the sweep until ctx is cancelled or Stop is called. It blocks.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.lifecycle.Lock()
	if ms.cancel != nil {
		ms.lifecycle.Unlock()
		return ErrAlreadyStarted
	}
	ctx, ms.cancel = context.WithCancel(ctx)
	ms.lifecycle.Unlock()

	ms.running.Store(true)
	defer func() {
		ms.running.Store(false)
		ms.lifecycle.Lock()
		ms.cancel = nil
		ms.lifecycle.Unlock()
	}()

	ms.logger.DebugContext(ctx, "rate limiter cleanup started",
		logger.Component("ratelimiter"), logger.Duration(ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ms.RemoveStale()
		}
	}
}

// Stop cancels a running sweep.
func (ms *MemoryStore) Stop() error {
	ms.lifecycle.Lock()
	defer ms.lifecycle.Unlock()

	if ms.cancel == nil {
		return ErrNotStarted
	}
	ms.cancel()
	ms.cancel = nil
	return nil
}

// Run adapts Start for errgroup; it returns nil on normal shutdown.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		err := ms.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Stats returns a snapshot of the store counters.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.buckets)
	ms.mu.Unlock()

	return MemoryStoreStats{
		BucketsCreated: ms.bucketsCreated.Load(),
		BucketsRemoved: ms.bucketsRemoved.Load(),
		ActiveBuckets:  active,
		IsRunning:      ms.running.Load(),
	}
}
