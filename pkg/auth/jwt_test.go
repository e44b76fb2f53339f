package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func fixedClock(at time.Time) jwt.Clock {
	return jwt.ClockFunc(func() time.Time { return at })
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestNewIssuer_Validation(t *testing.T) {
	tests := []struct {
		name       string
		access     string
		refresh    string
		accessTTL  time.Duration
		refreshTTL time.Duration
		wantError  bool
	}{
		{"valid", testAccessSecret, testRefreshSecret, time.Hour, 7 * 24 * time.Hour, false},
		{"missing access secret", "", testRefreshSecret, time.Hour, 7 * 24 * time.Hour, true},
		{"missing refresh secret", testAccessSecret, "", time.Hour, 7 * 24 * time.Hour, true},
		{"zero access ttl", testAccessSecret, testRefreshSecret, 0, 7 * 24 * time.Hour, true},
		{"negative refresh ttl", testAccessSecret, testRefreshSecret, time.Hour, -time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIssuer(tt.access, tt.refresh, tt.accessTTL, tt.refreshTTL)
			if (err != nil) != tt.wantError {
				t.Errorf("NewIssuer error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be non-empty")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	verifier, err := NewVerifier(testAccessSecret, WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}

	claims, err := verifier.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expected expiry %v, got %v", now.Add(time.Hour), claims.ExpiresAt)
	}
}

func TestVerify_RefreshTokenNeedsRefreshSecret(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	accessVerifier, _ := NewVerifier(testAccessSecret, WithClock(fixedClock(now)))
	refreshVerifier, _ := NewVerifier(testRefreshSecret, WithClock(fixedClock(now)))

	if _, err := accessVerifier.Verify(pair.RefreshToken); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("access verifier accepted a refresh token: %v", err)
	}
	if _, err := refreshVerifier.Verify(pair.RefreshToken); err != nil {
		t.Errorf("refresh verifier rejected its own token: %v", err)
	}
}

func TestVerify_FailureModes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		clockAt time.Time
		secret  string
		wantErr error
	}{
		{"garbage token", "not-a-jwt", now, testAccessSecret, ErrTokenMalformed},
		{"wrong secret", pair.AccessToken, now, "some-other-secret", ErrSignatureInvalid},
		{"expired", pair.AccessToken, now.Add(2 * time.Hour), testAccessSecret, ErrTokenExpired},
		{"expires exactly now", pair.AccessToken, now.Add(time.Hour), testAccessSecret, ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, err := NewVerifier(tt.secret, WithClock(fixedClock(tt.clockAt)))
			if err != nil {
				t.Fatalf("failed to create verifier: %v", err)
			}
			_, err = verifier.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
