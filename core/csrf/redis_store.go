package csrf

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps tokens in Redis so every instance behind a load balancer
// accepts tokens issued by any other. Keys expire with the validity window.
// Take relies on GETDEL, available since Redis 6.2.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore creates a store using keys of the form prefix+token.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if client == nil {
		panic("csrf: redis client is required")
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Save(ctx context.Context, token string, issuedAt time.Time, ttl time.Duration) error {
	value := strconv.FormatInt(issuedAt.UnixNano(), 10)
	if err := s.client.Set(ctx, s.prefix+token, value, ttl).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, token string) (time.Time, bool, error) {
	value, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errors.Join(ErrStore, err)
	}

	nanos, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// A corrupt entry is consumed and treated as absent.
		return time.Time{}, false, nil
	}
	return time.Unix(0, nanos), true, nil
}

// DeleteExpired is a no-op; Redis expires keys on its own.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
