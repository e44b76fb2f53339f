package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier validates HS256-signed tokens against a shared secret.
// It has no side effects; the outcome depends only on the token, the secret
// and the clock.
type Verifier struct {
	secret []byte
	clock  jwt.Clock
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithClock sets the clock used for expiry checks. Defaults to the system
// clock; tests inject a fixed one.
func WithClock(clock jwt.Clock) VerifierOption {
	return func(v *Verifier) {
		v.clock = clock
	}
}

// NewVerifier creates a Verifier for the given signing secret.
func NewVerifier(secret string, opts ...VerifierOption) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}

	v := &Verifier{
		secret: []byte(secret),
		clock:  jwt.ClockFunc(time.Now),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify parses and validates a token, returning its claims.
// Fails with ErrTokenMalformed when the token cannot be parsed, with
// ErrTokenExpired when it is past its expiry, and with ErrSignatureInvalid
// when the signature does not match the secret.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenMalformed)
	}

	// First establish the token is structurally sound, so a garbled token
	// is reported as malformed rather than as a signature failure.
	if _, err := jwt.Parse([]byte(tokenString), jwt.WithVerify(false), jwt.WithValidate(false)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithClock(v.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	if token.Subject() == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrTokenMalformed)
	}

	return &Claims{
		Subject:   token.Subject(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}, nil
}

// Issuer creates signed access and refresh tokens. Access and refresh tokens
// use different secrets so one can never stand in for the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         jwt.Clock
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock sets the clock used for iat/exp claims.
func WithIssuerClock(clock jwt.Clock) IssuerOption {
	return func(i *Issuer) {
		i.clock = clock
	}
}

// NewIssuer creates an Issuer with the given secrets and lifetimes.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("both access and refresh secrets are required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	i := &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         jwt.ClockFunc(time.Now),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IssuePair creates a new access/refresh token pair for the given subject.
func (i *Issuer) IssuePair(subject string) (*TokenPair, error) {
	access, err := i.sign(subject, i.accessSecret, i.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := i.sign(subject, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(subject string, secret []byte, ttl time.Duration) (string, error) {
	now := i.clock.Now()

	token, err := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}
