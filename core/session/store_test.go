package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsai/eddiauth/core/session"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("unique ids", func(t *testing.T) {
		t.Parallel()

		store := session.New()
		seen := make(map[string]bool)
		for range 100 {
			id, err := store.Create("admin")
			require.NoError(t, err)
			assert.Len(t, id, 43)
			assert.False(t, seen[id])
			seen[id] = true
		}
		assert.Equal(t, 100, store.Len())
	})

	t.Run("timestamps", func(t *testing.T) {
		t.Parallel()

		clk := newClock()
		store := session.New(session.WithClock(clk.Now))
		id, err := store.Create("admin")
		require.NoError(t, err)

		entry, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, "admin", entry.Username)
		assert.Equal(t, clk.Now(), entry.CreatedAt)
		assert.Equal(t, clk.Now(), entry.LastAccessedAt)
	})

	t.Run("empty username", func(t *testing.T) {
		t.Parallel()

		_, err := session.New().Create("")
		assert.ErrorIs(t, err, session.ErrEmptyUsername)
	})
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	t.Run("valid after create", func(t *testing.T) {
		t.Parallel()

		store := session.New()
		id, err := store.Create("admin")
		require.NoError(t, err)
		assert.True(t, store.IsValid(id))
	})

	t.Run("unknown and empty", func(t *testing.T) {
		t.Parallel()

		store := session.New()
		assert.False(t, store.IsValid(""))
		assert.False(t, store.IsValid("nope"))
	})

	t.Run("expires after idle timeout and stays gone", func(t *testing.T) {
		t.Parallel()

		clk := newClock()
		store := session.New(session.WithClock(clk.Now))
		id, err := store.Create("admin")
		require.NoError(t, err)

		clk.Advance(time.Hour)
		assert.False(t, store.IsValid(id))
		assert.Equal(t, 0, store.Len())

		clk.Advance(-time.Hour)
		assert.False(t, store.IsValid(id))
	})

	t.Run("access slides the window", func(t *testing.T) {
		t.Parallel()

		clk := newClock()
		store := session.New(session.WithClock(clk.Now))
		id, err := store.Create("admin")
		require.NoError(t, err)

		for range 3 {
			clk.Advance(50 * time.Minute)
			assert.True(t, store.IsValid(id))
		}

		entry, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, clk.Now(), entry.LastAccessedAt)
		assert.Equal(t, 150*time.Minute, entry.LastAccessedAt.Sub(entry.CreatedAt))
	})

	t.Run("concurrent refresh and expiry", func(t *testing.T) {
		t.Parallel()

		clk := newClock()
		store := session.New(session.WithClock(clk.Now))
		id, err := store.Create("admin")
		require.NoError(t, err)
		clk.Advance(time.Hour)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.False(t, store.IsValid(id))
			}()
		}
		wg.Wait()

		_, ok := store.UsernameOf(id)
		assert.False(t, ok)
		assert.EqualValues(t, 1, store.Stats().Expired)
	})
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	store := session.New()
	id, err := store.Create("admin")
	require.NoError(t, err)

	store.Invalidate(id)
	assert.False(t, store.IsValid(id))

	assert.NotPanics(t, func() {
		store.Invalidate(id)
		store.Invalidate("")
	})
}

func TestUsernameOf(t *testing.T) {
	t.Parallel()

	clk := newClock()
	store := session.New(session.WithClock(clk.Now))
	id, err := store.Create("alice123")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)

	// Pure lookup: no expiry check, no refresh.
	name, ok := store.UsernameOf(id)
	assert.True(t, ok)
	assert.Equal(t, "alice123", name)

	entry, _ := store.Get(id)
	assert.Equal(t, entry.CreatedAt, entry.LastAccessedAt)

	_, ok = store.UsernameOf("missing")
	assert.False(t, ok)
}

func TestDeleteExpired(t *testing.T) {
	t.Parallel()

	clk := newClock()
	store := session.New(session.WithClock(clk.Now))

	old, err := store.Create("old")
	require.NoError(t, err)
	clk.Advance(40 * time.Minute)
	fresh, err := store.Create("fresh")
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)

	assert.Equal(t, 1, store.DeleteExpired())
	_, ok := store.Get(old)
	assert.False(t, ok)
	assert.True(t, store.IsValid(fresh))
}

func TestCreatePrunesExpired(t *testing.T) {
	t.Parallel()

	clk := newClock()
	store := session.New(session.WithClock(clk.Now))

	stale, err := store.Create("stale")
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	id, err := store.Create("admin")
	require.NoError(t, err)

	_, ok := store.Get(stale)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
	assert.EqualValues(t, 1, store.Stats().Expired)
	assert.True(t, store.IsValid(id))
}

func TestBackgroundSweep(t *testing.T) {
	t.Parallel()

	clk := newClock()
	store := session.New(session.WithClock(clk.Now), session.WithCleanupInterval(5*time.Millisecond))

	_, err := store.Create("admin")
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.False(t, store.Stats().IsRunning)
	assert.ErrorIs(t, store.Stop(), session.ErrNotStarted)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := session.DefaultConfig()
	assert.Equal(t, time.Hour, session.NewFromConfig(cfg).IdleTimeout())

	cfg.IdleTimeout = time.Minute
	assert.Equal(t, time.Minute, session.NewFromConfig(cfg).IdleTimeout())
}
