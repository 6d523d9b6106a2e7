package auth

import (
	"context"

	"vwds/internal/domain"
)

type claimsKey struct{}

// WithClaims stores verified claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext returns the caller's claims, if the request was authenticated.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// RequireClaims is FromContext that fails with ErrMissingToken.
func RequireClaims(ctx context.Context) (*Claims, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return c, nil
}
