package config

import (
	"fmt"
	"time"
)

// RateLimitConfig defines the per-user question rate limit.
//
// The limiter is a sliding window: a request is admitted when fewer than
// Limit requests were admitted within the trailing Window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active. Default: true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Limit is the maximum number of admitted requests per window.
	// Default: 10.
	Limit int `yaml:"limit,omitempty"`

	// Window is the sliding window duration. Default: 60s.
	Window time.Duration `yaml:"window,omitempty"`
}

// IsEnabled returns true if rate limiting is enabled.
func (c *RateLimitConfig) IsEnabled() bool {
	return c != nil && BoolValue(c.Enabled, true)
}

// SetDefaults sets default values for RateLimitConfig.
func (c *RateLimitConfig) SetDefaults() {
	if c.Enabled == nil {
		c.Enabled = BoolPtr(true)
	}
	if c.Limit == 0 {
		c.Limit = 10
	}
	if c.Window == 0 {
		c.Window = 60 * time.Second
	}
}

// Validate validates the RateLimitConfig.
func (c *RateLimitConfig) Validate() error {
	if !c.IsEnabled() {
		return nil
	}
	if c.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if c.Window < time.Second {
		return fmt.Errorf("window must be at least 1 second, got %s", c.Window)
	}
	return nil
}
