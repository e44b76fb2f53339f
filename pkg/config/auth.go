package config

import (
	"fmt"
	"time"
)

// AuthConfig configures JWT-based authentication.
//
// Tokens are signed with HS256. The access token secret and the refresh
// token secret must differ so a refresh token can never pass as an access
// token.
//
// Example:
//
//	auth:
//	  secret: ${JWT_SECRET}
//	  refresh_secret: ${JWT_REFRESH_SECRET}
//	  access_ttl: 1h
//	  refresh_ttl: 168h
type AuthConfig struct {
	// Secret signs and verifies access tokens. Required.
	Secret string `yaml:"secret,omitempty"`

	// RefreshSecret signs and verifies refresh tokens. Required.
	RefreshSecret string `yaml:"refresh_secret,omitempty"`

	// AccessTTL is the access token lifetime. Default: 1h.
	AccessTTL time.Duration `yaml:"access_ttl,omitempty"`

	// RefreshTTL is the refresh token lifetime. Default: 168h (7 days).
	RefreshTTL time.Duration `yaml:"refresh_ttl,omitempty"`
}

// SetDefaults applies default values to AuthConfig.
func (c *AuthConfig) SetDefaults() {
	if c.AccessTTL == 0 {
		c.AccessTTL = time.Hour
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
}

// Validate checks the AuthConfig for errors.
func (c *AuthConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if c.RefreshSecret == "" {
		return fmt.Errorf("refresh_secret is required")
	}
	if c.Secret == c.RefreshSecret {
		return fmt.Errorf("secret and refresh_secret must differ")
	}
	if c.AccessTTL < time.Minute {
		return fmt.Errorf("access_ttl must be at least 1 minute")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("refresh_ttl must be longer than access_ttl")
	}
	return nil
}
