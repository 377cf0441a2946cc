package auth

import (
	"context"
)

// contextKey is a private type so this package's context keys cannot
// collide with keys from other packages.
type contextKey string

const (
	userContextKey  contextKey = "auth_user"
	tokenContextKey contextKey = "auth_token"
)

// NewContextWithSession attaches the authenticated user and the raw token
// that authenticated this request to the request context.
func NewContextWithSession(ctx context.Context, user *User, token string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}

// UserFromContext extracts the authenticated user set by the guard.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// TokenFromContext extracts the raw session token set by the guard.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
