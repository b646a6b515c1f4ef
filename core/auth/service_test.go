package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/labsai/eddiauth/core/auth"
	"github.com/labsai/eddiauth/core/session"
	"github.com/labsai/eddiauth/core/userstore"
	"github.com/labsai/eddiauth/pkg/passhash"
)

var errDown = errors.New("connection refused")

// flakyStore wraps Memory and fails selected operations.
type flakyStore struct {
	*userstore.Memory

	mu         sync.Mutex
	failFind   bool
	failCreate bool
	failUpdate bool
	failLogin  bool
}

func newFlaky() *flakyStore {
	return &flakyStore{Memory: userstore.NewMemory()}
}

func (f *flakyStore) set(fn func(*flakyStore)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func (f *flakyStore) fails(flag *bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *flag
}

func (f *flakyStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if f.fails(&f.failFind) {
		return nil, errDown
	}
	return f.Memory.FindByUsername(ctx, username)
}

func (f *flakyStore) Create(ctx context.Context, u *auth.User) error {
	if f.fails(&f.failCreate) {
		return errDown
	}
	return f.Memory.Create(ctx, u)
}

func (f *flakyStore) Update(ctx context.Context, u *auth.User) error {
	if f.fails(&f.failUpdate) {
		return errDown
	}
	return f.Memory.Update(ctx, u)
}

func (f *flakyStore) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if f.fails(&f.failLogin) {
		return errDown
	}
	return f.Memory.UpdateLastLogin(ctx, username, at)
}

func newService(users auth.UserStore, opts ...auth.Option) *auth.Service {
	opts = append([]auth.Option{auth.WithHasher(passhash.New(passhash.WithCost(bcrypt.MinCost)))}, opts...)
	return auth.New(users, session.New(), opts...)
}

func TestNew_PanicsOnNilCollaborators(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { auth.New(nil, session.New()) })
	assert.Panics(t, func() { auth.New(userstore.NewMemory(), nil) })
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("modern hash", func(t *testing.T) {
		t.Parallel()

		svc := newService(userstore.NewMemory())
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", "a@example.com"))

		assert.True(t, svc.Authenticate(ctx, "alice123", "secret1"))
		assert.False(t, svc.Authenticate(ctx, "alice123", "secret2"))
		assert.False(t, svc.Authenticate(ctx, "nobody", "secret1"))
		assert.False(t, svc.Authenticate(ctx, "alice123", ""))
		assert.False(t, svc.Authenticate(ctx, "", "secret1"))
	})

	t.Run("suffix past bcrypt input limit is rejected", func(t *testing.T) {
		t.Parallel()

		svc := newService(userstore.NewMemory())
		pw := strings.Repeat("x", 72)
		require.NoError(t, svc.AddUser(ctx, "longuser", pw, ""))

		assert.True(t, svc.Authenticate(ctx, "longuser", pw))
		assert.False(t, svc.Authenticate(ctx, "longuser", pw+"-not-my-password"))
	})

	t.Run("inactive or hashless users fail", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		hash, err := passhash.New(passhash.WithCost(bcrypt.MinCost)).Hash("secret1")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, &auth.User{Username: "off", PasswordHash: hash, Active: false}))
		require.NoError(t, users.Create(ctx, &auth.User{Username: "empty", Active: true}))

		svc := newService(users)
		assert.False(t, svc.Authenticate(ctx, "off", "secret1"))
		assert.False(t, svc.Authenticate(ctx, "empty", "secret1"))
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		t.Parallel()

		users := newFlaky()
		svc := newService(users)
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))

		users.set(func(f *flakyStore) { f.failFind = true })
		assert.False(t, svc.Authenticate(ctx, "alice123", "secret1"))
	})

	t.Run("legacy hash migrates to bcrypt", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		require.NoError(t, users.Create(ctx, &auth.User{
			Username:     "legacy",
			PasswordHash: passhash.LegacyHash("c2FsdA", "oldpass"),
			Active:       true,
		}))

		svc := newService(users)
		assert.False(t, svc.Authenticate(ctx, "legacy", "wrong"))

		stored, err := users.FindByUsername(ctx, "legacy")
		require.NoError(t, err)
		assert.True(t, passhash.IsLegacy(stored.PasswordHash), "failed login must not migrate")

		assert.True(t, svc.Authenticate(ctx, "legacy", "oldpass"))

		stored, err = users.FindByUsername(ctx, "legacy")
		require.NoError(t, err)
		assert.NotContains(t, stored.PasswordHash, passhash.LegacyDelimiter)
		assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))

		assert.True(t, svc.Authenticate(ctx, "legacy", "oldpass"))
		assert.False(t, svc.Authenticate(ctx, "legacy", "wrong"))
	})

	t.Run("migration failure keeps login successful", func(t *testing.T) {
		t.Parallel()

		users := newFlaky()
		require.NoError(t, users.Memory.Create(ctx, &auth.User{
			Username:     "legacy",
			PasswordHash: passhash.LegacyHash("salt", "oldpass"),
			Active:       true,
		}))
		users.set(func(f *flakyStore) { f.failUpdate = true })

		svc := newService(users)
		assert.True(t, svc.Authenticate(ctx, "legacy", "oldpass"))

		stored, err := users.FindByUsername(ctx, "legacy")
		require.NoError(t, err)
		assert.True(t, passhash.IsLegacy(stored.PasswordHash))
	})

	t.Run("low cost hash is upgraded", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		weak, err := passhash.New(passhash.WithCost(bcrypt.MinCost)).Hash("secret1")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, &auth.User{Username: "alice123", PasswordHash: weak, Active: true}))

		svc := auth.New(users, session.New(), auth.WithHasher(passhash.New(passhash.WithCost(bcrypt.MinCost+1))))
		assert.True(t, svc.Authenticate(ctx, "alice123", "secret1"))

		stored, err := users.FindByUsername(ctx, "alice123")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost+1, cost)
	})

	t.Run("records last login", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		users := userstore.NewMemory()
		svc := newService(users, auth.WithClock(func() time.Time { return at }))
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))

		assert.True(t, svc.Authenticate(ctx, "alice123", "secret1"))

		require.Eventually(t, func() bool {
			u, err := users.FindByUsername(ctx, "alice123")
			return err == nil && u.LastLoginAt != nil && u.LastLoginAt.Equal(at)
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("last login failure is ignored", func(t *testing.T) {
		t.Parallel()

		users := newFlaky()
		svc := newService(users)
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))
		users.set(func(f *flakyStore) { f.failLogin = true })

		assert.True(t, svc.Authenticate(ctx, "alice123", "secret1"))
	})
}

func TestLoginLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newService(userstore.NewMemory())
	require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))

	_, err := svc.Login(ctx, "alice123", "nope")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	id, err := svc.Login(ctx, "alice123", "secret1")
	require.NoError(t, err)
	assert.True(t, svc.IsSessionValid(id))

	name, ok := svc.UsernameOf(id)
	assert.True(t, ok)
	assert.Equal(t, "alice123", name)

	svc.Logout(ctx, id)
	assert.False(t, svc.IsSessionValid(id))
	assert.NotPanics(t, func() { svc.Logout(ctx, "") })
}

func TestSessionDelegation(t *testing.T) {
	t.Parallel()

	svc := newService(userstore.NewMemory())
	id, err := svc.CreateSession("admin")
	require.NoError(t, err)
	assert.True(t, svc.IsSessionValid(id))

	svc.InvalidateSession(id)
	assert.False(t, svc.IsSessionValid(id))
	_, ok := svc.UsernameOf(id)
	assert.False(t, ok)
}

func TestAddUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores active bcrypt record", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
		users := userstore.NewMemory()
		svc := newService(users, auth.WithClock(func() time.Time { return at }))
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", "a@example.com"))

		u, err := users.FindByUsername(ctx, "alice123")
		require.NoError(t, err)
		assert.True(t, u.Active)
		assert.Equal(t, at, u.CreatedAt)
		assert.Equal(t, "a@example.com", u.Email)
		assert.NotEqual(t, "secret1", u.PasswordHash)
		assert.False(t, passhash.IsLegacy(u.PasswordHash))
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()

		svc := newService(userstore.NewMemory())
		require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))
		assert.ErrorIs(t, svc.AddUser(ctx, "alice123", "other12", ""), auth.ErrAlreadyExists)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		users := newFlaky()
		users.set(func(f *flakyStore) { f.failCreate = true })

		err := newService(users).AddUser(ctx, "alice123", "secret1", "")
		assert.ErrorIs(t, err, auth.ErrStore)
		assert.NotErrorIs(t, err, auth.ErrAlreadyExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		svc := newService(userstore.NewMemory())
		assert.ErrorIs(t, svc.AddUser(ctx, "", "secret1", ""), auth.ErrInvalidInput)
		assert.ErrorIs(t, svc.AddUser(ctx, "alice123", "", ""), auth.ErrInvalidInput)
	})
}

func TestUserExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	users := newFlaky()
	svc := newService(users)
	require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))

	assert.True(t, svc.UserExists(ctx, "alice123"))
	assert.False(t, svc.UserExists(ctx, "bob"))

	users.set(func(f *flakyStore) { f.failFind = true })
	assert.False(t, svc.UserExists(ctx, "alice123"))
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newService(userstore.NewMemory())
	require.NoError(t, svc.AddUser(ctx, "alice123", "secret1", ""))

	require.NoError(t, svc.DeleteUser(ctx, "alice123"))
	assert.False(t, svc.UserExists(ctx, "alice123"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "alice123"), auth.ErrNotFound)
}

func TestBootstrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		cfg := auth.DefaultConfig()
		cfg.BcryptCost = bcrypt.MinCost
		svc := auth.NewFromConfig(cfg, users, session.New())

		require.NoError(t, svc.Bootstrap(ctx))
		assert.Equal(t, 0, users.Len())
	})

	t.Run("seeds admin and demo accounts", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		cfg := auth.DefaultConfig()
		cfg.BootstrapEnabled = true
		cfg.BcryptCost = bcrypt.MinCost
		svc := auth.NewFromConfig(cfg, users, session.New())

		require.NoError(t, svc.Bootstrap(ctx))
		assert.True(t, svc.Authenticate(ctx, "admin", "admin"))
		assert.True(t, svc.Authenticate(ctx, "user", "user"))

		// A second run leaves existing accounts alone.
		require.NoError(t, svc.Bootstrap(ctx))
		assert.Equal(t, 2, users.Len())
	})

	t.Run("keeps existing passwords", func(t *testing.T) {
		t.Parallel()

		users := userstore.NewMemory()
		svc := newService(users, auth.WithBootstrapAccounts(auth.Account{Username: "admin", Password: "admin"}))
		require.NoError(t, svc.AddUser(ctx, "admin", "rotated1", ""))

		require.NoError(t, svc.Bootstrap(ctx))
		assert.False(t, svc.Authenticate(ctx, "admin", "admin"))
		assert.True(t, svc.Authenticate(ctx, "admin", "rotated1"))
	})

	t.Run("configured passwords", func(t *testing.T) {
		t.Parallel()

		cfg := auth.DefaultConfig()
		cfg.BootstrapEnabled = true
		cfg.BootstrapAdminPassword = "s3cret-admin"
		accounts := cfg.Accounts()
		require.Len(t, accounts, 2)
		assert.Equal(t, auth.Account{Username: "admin", Password: "s3cret-admin"}, accounts[0])
		assert.Equal(t, auth.Account{Username: "user", Password: "user"}, accounts[1])
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		t.Parallel()

		users := newFlaky()
		users.set(func(f *flakyStore) { f.failCreate = true })
		svc := newService(users, auth.WithBootstrapAccounts(auth.Account{Username: "admin", Password: "admin"}))

		assert.ErrorIs(t, svc.Bootstrap(ctx), auth.ErrStore)
	})
}

func TestValidateSignup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     error
	}{
		{"valid", "alice123", "secret1", "secret1", nil},
		{"valid with dash and underscore", "a_b-c", "secret", "secret", nil},
		{"max length username", strings.Repeat("a", 20), "secret1", "secret1", nil},
		{"short username", "ab", "secret1", "secret1", auth.ErrInvalidUsername},
		{"long username", strings.Repeat("a", 21), "secret1", "secret1", auth.ErrInvalidUsername},
		{"bad characters", "alice!", "secret1", "secret1", auth.ErrInvalidUsername},
		{"markup", "<b>x</b>", "secret1", "secret1", auth.ErrInvalidUsername},
		{"short password", "alice123", "12345", "12345", auth.ErrPasswordTooShort},
		{"max length password", "alice123", strings.Repeat("p", 72), strings.Repeat("p", 72), nil},
		{"long password", "alice123", strings.Repeat("p", 73), strings.Repeat("p", 73), auth.ErrPasswordTooLong},
		{"long multibyte password", "alice123", strings.Repeat("ü", 37), strings.Repeat("ü", 37), auth.ErrPasswordTooLong},
		{"mismatch", "alice123", "secret1", "secret2", auth.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := auth.ValidateSignup(tt.username, tt.password, tt.confirm)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, auth.ErrInvalidInput)
		})
	}
}
