package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mapAccounts struct {
	accounts map[string]*Account
	err      error
	calls    int
}

func (m *mapAccounts) FindByID(ctx context.Context, id string) (*Account, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.accounts[id], nil
}

func newTestAuthenticator(t *testing.T, now time.Time, accounts AccountLookup) (*Authenticator, *Issuer) {
	t.Helper()

	issuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	verifier, err := NewVerifier(testAccessSecret, WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	authenticator, err := NewAuthenticator(verifier, accounts)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	return authenticator, issuer
}

func TestAuthenticate_Success(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	accounts := &mapAccounts{accounts: map[string]*Account{
		"user-123": {ID: "user-123", Email: "test@example.com"},
	}}
	authenticator, issuer := newTestAuthenticator(t, now, accounts)

	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	identity, err := authenticator.Authenticate(context.Background(), "Bearer "+pair.AccessToken)
	if err != nil {
		t.Fatalf("expected successful authentication, got %v", err)
	}
	if identity.ID != "user-123" {
		t.Errorf("expected id user-123, got %q", identity.ID)
	}
	if identity.Email != "test@example.com" {
		t.Errorf("expected email test@example.com, got %q", identity.Email)
	}
	if accounts.calls != 1 {
		t.Errorf("expected exactly one account lookup, got %d", accounts.calls)
	}
}

func TestAuthenticate_FailureModes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	accounts := &mapAccounts{accounts: map[string]*Account{
		"user-123": {ID: "user-123", Email: "test@example.com"},
	}}
	authenticator, issuer := newTestAuthenticator(t, now, accounts)

	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	ghostIssuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	ghostPair, err := ghostIssuer.IssuePair("user-999")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	expiredIssuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now.Add(-2*time.Hour))))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	expiredPair, err := expiredIssuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"empty header", "", ErrMissingCredential},
		{"no bearer prefix", pair.AccessToken, ErrMissingCredential},
		{"bearer with empty token", "Bearer ", ErrMissingCredential},
		{"garbage token", "Bearer not-a-jwt", ErrInvalidCredential},
		{"expired token", "Bearer " + expiredPair.AccessToken, ErrCredentialExpired},
		{"unknown subject", "Bearer " + ghostPair.AccessToken, ErrSubjectNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authenticator.Authenticate(context.Background(), tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthenticate_LookupErrorIsNotSubjectNotFound(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lookupErr := errors.New("connection refused")
	accounts := &mapAccounts{err: lookupErr}
	authenticator, issuer := newTestAuthenticator(t, now, accounts)

	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	_, err = authenticator.Authenticate(context.Background(), "Bearer "+pair.AccessToken)
	if err == nil {
		t.Fatal("expected error from failing lookup")
	}
	if errors.Is(err, ErrSubjectNotFound) {
		t.Error("infrastructure failure must not be reported as a missing subject")
	}
}

func TestIdentityContext_Roundtrip(t *testing.T) {
	identity := &Identity{ID: "user-123", Email: "test@example.com"}
	ctx := ContextWithIdentity(context.Background(), identity)

	got := IdentityFromContext(ctx)
	if got == nil || got.ID != identity.ID {
		t.Errorf("expected identity %v, got %v", identity, got)
	}

	if IdentityFromContext(context.Background()) != nil {
		t.Error("expected nil identity from empty context")
	}
}
