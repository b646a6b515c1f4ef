package userstore

import (
	"context"
	"sync"
	"time"

	"github.com/labsai/eddiauth/core/auth"
)

// Memory is an in-process auth.UserStore.
type Memory struct {
	mu    sync.RWMutex
	users map[string]auth.User
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]auth.User)}
}

// FindByUsername implements auth.UserStore.
func (m *Memory) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.RLock()
	u, ok := m.users[username]
	m.mu.RUnlock()

	if !ok {
		return nil, auth.ErrNotFound
	}
	return &u, nil
}

// Create implements auth.UserStore.
func (m *Memory) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return auth.ErrAlreadyExists
	}
	m.users[user.Username] = *user
	return nil
}

// Update implements auth.UserStore.
func (m *Memory) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; !ok {
		return auth.ErrNotFound
	}
	m.users[user.Username] = *user
	return nil
}

// UpdateLastLogin implements auth.UserStore.
func (m *Memory) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[username]
	if !ok {
		return auth.ErrNotFound
	}
	u.LastLoginAt = &at
	m.users[username] = u
	return nil
}

// Delete implements auth.UserStore.
func (m *Memory) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; !ok {
		return auth.ErrNotFound
	}
	delete(m.users, username)
	return nil
}

// Len returns the number of stored users.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
