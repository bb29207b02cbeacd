package goIdentity

import (
	"context"

	"github.com/MrEthical07/goIdentity/token"
)

type sessionContextKey struct{}

// WithSession attaches validated session claims to ctx.
func WithSession(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, claims)
}

// SessionFromContext returns the claims stored by WithSession.
func SessionFromContext(ctx context.Context) (*token.Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(sessionContextKey{}).(*token.Claims)
	return claims, ok && claims != nil
}
