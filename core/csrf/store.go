package csrf

import (
	"context"
	"time"
)

// Store persists issued tokens. Take must be an atomic get-and-delete so that
// concurrent callers never both observe the same token.
type Store interface {
	Save(ctx context.Context, token string, issuedAt time.Time, ttl time.Duration) error
	Take(ctx context.Context, token string) (issuedAt time.Time, found bool, err error)
	// DeleteExpired removes tokens issued before the cutoff and returns how
	// many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
