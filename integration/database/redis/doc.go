// Package redis connects to Redis with retries and exposes a readiness check.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	ready := redis.Healthcheck(client)
//
// Both redis:// and rediss:// URLs are accepted. Connect pings with
// exponential backoff until ConnectTimeout elapses or RetryAttempts run out.
package redis
