package session

import "time"

// Entry is the server-side state of one session.
type Entry struct {
	Username       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// IsExpired reports whether the entry went idle for at least timeout as of now.
func (e Entry) IsExpired(now time.Time, timeout time.Duration) bool {
	return now.Sub(e.LastAccessedAt) >= timeout
}
