// Package ratelimiter implements a token bucket limiter over a pluggable store.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each allowed request consumes one token.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     10,
//		RefillInterval: time.Minute,
//	})
//	res, err := limiter.Allow(ctx, "login:"+ip)
//	if !res.Allowed() {
//		// 429, Retry-After: res.RetryAfter()
//	}
//
// The memory store drops buckets idle for an hour in a background sweep
// started with Start or Run.
package ratelimiter
