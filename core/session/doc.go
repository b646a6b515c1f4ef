// Package session keeps authenticated sessions in process memory.
//
// A session maps an opaque identifier (32 random bytes, base64url) to the
// username that logged in and two timestamps. A session is valid while it has
// been accessed within the idle timeout; every successful IsValid call slides
// the window forward.
//
//	store := session.New(session.WithIdleTimeout(time.Hour))
//	id, err := store.Create("admin")
//	if store.IsValid(id) {
//		user, _ := store.UsernameOf(id)
//	}
//	store.Invalidate(id)
//
// Sessions are not persisted. A process restart logs every user out.
//
// Expired entries are removed lazily on lookup and by a background sweep
// started with Start or Run.
package session
