package csrf

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in a process-local map.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]time.Time)}
}

func (s *MemoryStore) Save(_ context.Context, token string, issuedAt time.Time, _ time.Duration) error {
	s.mu.Lock()
	s.tokens[token] = issuedAt
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Take(_ context.Context, token string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt, ok := s.tokens[token]
	if ok {
		delete(s.tokens, token)
	}
	return issuedAt, ok, nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, issuedAt := range s.tokens {
		if !issuedAt.After(before) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored tokens.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
