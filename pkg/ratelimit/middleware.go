package ratelimit

import (
	"encoding/json"
	"net/http"

	"github.com/answersai/backend/pkg/auth"
)

// Middleware returns a chi-compatible middleware that gates requests on the
// limiter, keyed by the authenticated identity. It must run after the auth
// middleware; requests without an identity are rejected outright.
//
// A nil limiter disables rate limiting and passes everything through.
func Middleware(limiter *SlidingWindowLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				writeEnvelope(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			if !limiter.TryAdmit(identity.ID) {
				writeEnvelope(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
