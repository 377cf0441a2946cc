package auth

import (
	"context"
	"errors"
)

// Store sentinel errors. Services translate these into the apperror
// taxonomy; the store layer stays free of HTTP concerns.
var (
	// ErrNotFound is returned when no user (or avatar) matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a create or update would violate
	// the unique email constraint.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserUpdate describes a partial user update. Nil fields are left
// untouched; the whole update is applied as one statement so concurrent
// writers can never observe a partially applied set of fields.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Age          *int
}

// UserStore persists user records and their active session-token sets.
// Deleting a user cascades to tokens and tasks at the schema level.
type UserStore interface {
	// CreateUser inserts a new user and returns it with generated fields
	// populated. Returns ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, user *User) (*User, error)
	// UserByID returns the user with the given id, or ErrNotFound.
	UserByID(ctx context.Context, id int64) (*User, error)
	// UserByEmail returns the user with the given email, or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser applies upd to the user atomically and returns the
	// updated record. Returns ErrNotFound or ErrDuplicateEmail.
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error)
	// DeleteUser removes the user and returns the deleted record.
	// Dependent tokens and tasks are removed by the schema cascade.
	DeleteUser(ctx context.Context, id int64) (*User, error)

	// AddToken adds a session token to the user's active set.
	AddToken(ctx context.Context, userID int64, token string) error
	// RemoveToken removes exactly that token from the user's active set.
	RemoveToken(ctx context.Context, userID int64, token string) error
	// RemoveAllTokens clears the user's active set.
	RemoveAllTokens(ctx context.Context, userID int64) error
	// HasToken reports whether token is currently in the user's active
	// set. This is read fresh on every call; revocation is visible to the
	// next request immediately.
	HasToken(ctx context.Context, userID int64, token string) (bool, error)

	// SetAvatar stores the avatar bytes for the user; nil clears it.
	SetAvatar(ctx context.Context, userID int64, data []byte) error
	// Avatar returns the stored avatar bytes, or ErrNotFound when the
	// user does not exist or has no avatar.
	Avatar(ctx context.Context, userID int64) ([]byte, error)
}
