package auth

import "errors"

// Verifier errors. Each failure mode of token verification is distinct so
// callers can shape responses without string matching.
var (
	// ErrTokenMalformed is returned when a token cannot be parsed.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrSignatureInvalid is returned when a token signature does not match.
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired is returned when a token has expired.
	ErrTokenExpired = errors.New("token expired")
)

// Authenticator errors. These are the externally observable rejection kinds
// of the session authentication pipeline.
var (
	// ErrMissingCredential is returned when no bearer credential is presented.
	ErrMissingCredential = errors.New("authorization token required")

	// ErrInvalidCredential is returned when a credential is malformed or
	// carries a bad signature.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCredentialExpired is returned when a credential has expired.
	ErrCredentialExpired = errors.New("credential expired")

	// ErrSubjectNotFound is returned when a valid credential names a subject
	// with no matching account.
	ErrSubjectNotFound = errors.New("subject no longer exists")
)
