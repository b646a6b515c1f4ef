// Package mongo connects to MongoDB with retries and exposes a readiness check.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//		return err
//	}
//	users := db.Collection("users")
//
// Connecting retries RetryAttempts times, RetryInterval apart, and pings the
// primary before returning so cold starts of hosted clusters do not fail
// startup.
package mongo
