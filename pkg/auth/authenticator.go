package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Account is the subset of a stored user the authenticator needs.
type Account struct {
	ID    string
	Email string
}

// AccountLookup resolves a subject id to an existing account.
// Implementations return a nil account (and nil error) when no account
// exists for the id.
type AccountLookup interface {
	FindByID(ctx context.Context, id string) (*Account, error)
}

// Authenticator turns an Authorization header value into an authenticated
// Identity. It performs exactly one account lookup per call and writes
// nothing.
type Authenticator struct {
	verifier *Verifier
	accounts AccountLookup
}

// NewAuthenticator creates an Authenticator from a Verifier and an account
// lookup collaborator.
func NewAuthenticator(verifier *Verifier, accounts AccountLookup) (*Authenticator, error) {
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account lookup is required")
	}
	return &Authenticator{verifier: verifier, accounts: accounts}, nil
}

// Authenticate validates the Authorization header value and resolves the
// subject to an account.
//
// Failure mapping:
//   - absent header, missing "Bearer " prefix, empty token → ErrMissingCredential
//   - malformed token or bad signature → ErrInvalidCredential
//   - expired token → ErrCredentialExpired
//   - no account for the subject → ErrSubjectNotFound
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*Identity, error) {
	if authorization == "" {
		return nil, ErrMissingCredential
	}

	tokenString := strings.TrimPrefix(authorization, "Bearer ")
	if tokenString == authorization || tokenString == "" {
		return nil, ErrMissingCredential
	}

	claims, err := a.verifier.Verify(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrCredentialExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
	}

	account, err := a.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	if account == nil {
		return nil, ErrSubjectNotFound
	}

	return &Identity{ID: account.ID, Email: account.Email}, nil
}
