// Package auth authenticates API callers from bearer tokens.
package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

type Config struct {
	Enabled  bool
	Issuer   string
	Audience string
	// JWKSURL defaults to the Keycloak certs endpoint of Issuer.
	JWKSURL string
}

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

// Principal is the authenticated caller.
type Principal struct {
	Issuer   string
	Subject  string
	Audience any
	Roles    []string
	Claims   map[string]any
}

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}
