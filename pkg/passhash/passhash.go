package passhash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor for new hashes.
	DefaultCost = 12

	// LegacyDelimiter separates salt and digest in legacy hashes.
	LegacyDelimiter = ":"

	legacyDigestLen = sha256.Size * 2
	maxPasswordLen  = 72
)

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithCost(cost int) Option {
	return func(h *Hasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// New creates a Hasher using DefaultCost unless overridden.
func New(opts ...Option) *Hasher {
	h := &Hasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cost returns the configured bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt hash with a fresh random salt embedded.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordLen {
		return "", ErrPasswordTooLong
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}
	return string(b), nil
}

// Verify reports whether password matches a bcrypt hash. Malformed hashes
// yield false, as do passwords longer than bcrypt's 72 byte input since
// Hash never accepts them.
func (h *Hasher) Verify(password, hash string) bool {
	if password == "" || hash == "" || len(password) > maxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash should be replaced: legacy format, not
// bcrypt, or bcrypt with a lower cost than configured.
func (h *Hasher) NeedsRehash(hash string) bool {
	if IsLegacy(hash) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}

var std = New()

// Hash hashes password with DefaultCost.
func Hash(password string) (string, error) {
	return std.Hash(password)
}

// Verify checks password against a bcrypt hash.
func Verify(password, hash string) bool {
	return std.Verify(password, hash)
}

// IsLegacy reports whether hash uses the legacy "salt:digest" format.
// bcrypt output never contains the delimiter.
func IsLegacy(hash string) bool {
	return strings.Contains(hash, LegacyDelimiter)
}

// VerifyLegacy checks password against a "salt:digest" hash. The digest
// comparison is constant time. Malformed input yields false.
func VerifyLegacy(password, stored string) bool {
	salt, digest, ok := strings.Cut(stored, LegacyDelimiter)
	if !ok || salt == "" || len(digest) != legacyDigestLen {
		return false
	}

	expected, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}

	actual := legacyDigest(salt, password)
	return subtle.ConstantTimeCompare(actual[:], expected) == 1
}

// LegacyHash produces a hash in the legacy format. It exists to build fixtures
// for migration; never use it for new credentials.
func LegacyHash(salt, password string) string {
	sum := legacyDigest(salt, password)
	return salt + LegacyDelimiter + hex.EncodeToString(sum[:])
}

func legacyDigest(salt, password string) [sha256.Size]byte {
	return sha256.Sum256([]byte(salt + password + salt))
}
