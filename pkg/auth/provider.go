package auth

import (
	"context"
	"net/http"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// Subject returns the authenticated caller's stable identifier, or "" for
// anonymous callers.
func Subject(ctx context.Context) string {
	if user, ok := ctx.Value(UserContextKey).(string); ok {
		return user
	}

	return ""
}

func Email(ctx context.Context) string {
	if email, ok := ctx.Value(EmailContextKey).(string); ok {
		return email
	}

	return ""
}
