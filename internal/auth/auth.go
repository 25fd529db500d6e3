// Package auth carries the viewer's identity through a context.
package auth

import (
	"context"
	"errors"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// User is the viewer on whose behalf requests are made.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type contextKey struct{}

// WithUser returns a context carrying the user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext returns the user in the context and whether one is present.
func FromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	if !ok || user.ID == 0 {
		return User{}, false
	}
	return user, true
}

// Require returns the user in the context or ErrNotAuthenticated.
func Require(ctx context.Context) (User, error) {
	user, ok := FromContext(ctx)
	if !ok {
		return User{}, ErrNotAuthenticated
	}
	return user, nil
}
