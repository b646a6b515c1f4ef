// Package passhash hashes and verifies passwords.
//
// New hashes use bcrypt with a cost of 12. Hashes in the legacy "salt:digest"
// format, a SHA-256 hex digest over salt+password+salt, can still be verified so
// callers can migrate them to bcrypt after a successful login:
//
//	if passhash.IsLegacy(stored) {
//		ok = passhash.VerifyLegacy(password, stored)
//		if ok {
//			upgraded, _ := passhash.Hash(password)
//			// persist upgraded
//		}
//	}
package passhash
