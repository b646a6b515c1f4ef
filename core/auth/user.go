package auth

import (
	"context"
	"time"
)

// User is a stored account.
type User struct {
	Username     string     `bson:"username" json:"username"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	Email        string     `bson:"email,omitempty" json:"email,omitempty"`
	Active       bool       `bson:"active" json:"active"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// UserStore persists user records. FindByUsername, Update, UpdateLastLogin
// and Delete return ErrNotFound for unknown users; Create returns
// ErrAlreadyExists when the username is taken, including under a concurrent
// create.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
	Delete(ctx context.Context, username string) error
}

// SessionStore holds authenticated sessions.
type SessionStore interface {
	Create(username string) (string, error)
	IsValid(id string) bool
	Invalidate(id string)
	UsernameOf(id string) (string, bool)
}
