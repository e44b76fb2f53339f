package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware_AttachesIdentity(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	accounts := &mapAccounts{accounts: map[string]*Account{
		"user-123": {ID: "user-123", Email: "test@example.com"},
	}}
	authenticator, issuer := newTestAuthenticator(t, now, accounts)

	pair, err := issuer.IssuePair("user-123")
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	var seen *Identity
	handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/questions/abc", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.ID != "user-123" {
		t.Errorf("expected identity in handler context, got %v", seen)
	}
}

func TestMiddleware_RejectionMessages(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	accounts := &mapAccounts{accounts: map[string]*Account{
		"user-123": {ID: "user-123", Email: "test@example.com"},
	}}
	authenticator, _ := newTestAuthenticator(t, now, accounts)

	expiredIssuer, err := NewIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour,
		WithIssuerClock(fixedClock(now.Add(-2*time.Hour))))
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	expiredPair, err := expiredIssuer.IssuePair("user-123")
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

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{"missing header", "", "Authorization token required"},
		{"expired token", "Bearer " + expiredPair.AccessToken, "Token expired"},
		{"invalid token", "Bearer garbage", "Invalid token"},
		{"deleted user", "Bearer " + ghostPair.AccessToken, "User no longer exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerRan := false
			handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerRan = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/questions/abc", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if handlerRan {
				t.Error("handler must not run for rejected requests")
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["status"] != "error" {
				t.Errorf("expected error status, got %q", body["status"])
			}
			if body["message"] != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, body["message"])
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !ComparePassword(hash, "Sup3rSecret") {
		t.Error("expected matching password to verify")
	}
	if ComparePassword(hash, "WrongPassword1") {
		t.Error("expected wrong password to be rejected")
	}
}
