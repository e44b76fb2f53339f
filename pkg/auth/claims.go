// Package auth provides token issuance, verification and the session
// authentication pipeline.
//
// The pipeline has two layers:
//
//  1. Verifier: validates a signed HS256 token against a secret and the
//     clock, a pure function of its inputs.
//  2. Authenticator: extracts the bearer credential from a request, runs the
//     Verifier, and resolves the claimed subject to an existing account.
//
// The resolved Identity travels with the request context; nothing here is
// shared mutable per-request state.
package auth

import (
	"context"
	"time"
)

// Claims are the verified contents of a token.
type Claims struct {
	// Subject is the unique identifier for the user (sub claim).
	Subject string

	// IssuedAt is when the token was created (iat claim).
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid (exp claim).
	ExpiresAt time.Time
}

// Identity is an authenticated subject. Immutable once established for a
// request.
type Identity struct {
	// ID is the account's unique identifier.
	ID string `json:"id"`

	// Email is the account's email address.
	Email string `json:"email"`
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// ContextWithIdentity returns a new context carrying the given identity.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the authenticated identity from a context.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityContextKey).(*Identity); ok {
		return id
	}
	return nil
}
