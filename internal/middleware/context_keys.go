package middleware

import (
	"context"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
)

// ContextKey is a private key type so request-context values cannot collide
// with other packages.
type ContextKey string

const userCtxKey = ContextKey("auth_user")

// WithUser stores the authenticated user on the context. JWTAuth calls it
// after token validation; tests use it to exercise protected handlers.
func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the authenticated user resolved by JWTAuth, or nil.
func UserFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(userCtxKey).(*entity.User)
	return user
}
