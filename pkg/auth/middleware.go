package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Middleware returns a chi-compatible middleware that authenticates every
// request and attaches the resolved Identity to the request context.
// Unauthenticated requests are rejected with 401 and the standard error
// envelope; the wrapped handler never runs for them.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			status, message := rejectionResponse(err)
			writeError(w, status, message)
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectionResponse maps an authentication error to its HTTP status and
// client-facing message. Each rejection kind keeps a distinct message so
// clients can tell them apart.
func rejectionResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return http.StatusUnauthorized, "Authorization token required"
	case errors.Is(err, ErrCredentialExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, ErrSubjectNotFound):
		return http.StatusUnauthorized, "User no longer exists"
	default:
		slog.Error("authentication failed unexpectedly", "error", err)
		return http.StatusInternalServerError, "Authentication error"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
