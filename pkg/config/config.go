// Package config defines the application configuration and its loading.
//
// Configuration is YAML with environment variable expansion. Every section
// follows the same contract: SetDefaults fills in omitted values, Validate
// rejects inconsistent ones. The root Config wires both across all sections.
package config

import "fmt"

// Config is the root configuration for the answersd server.
//
// Example:
//
//	server:
//	  host: 0.0.0.0
//	  port: 3000
//	auth:
//	  secret: ${JWT_SECRET}
//	  refresh_secret: ${JWT_REFRESH_SECRET}
//	database:
//	  host: localhost
//	  database: answersai
//	llm:
//	  api_key: ${ANTHROPIC_API_KEY}
//	rate_limiting:
//	  enabled: true
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server,omitempty"`

	// Auth configures token issuance and verification.
	Auth AuthConfig `yaml:"auth,omitempty"`

	// Database configures the PostgreSQL connection.
	Database DatabaseConfig `yaml:"database,omitempty"`

	// LLM configures the completion provider for questions.
	LLM LLMConfig `yaml:"llm,omitempty"`

	// RateLimiting configures the per-user question rate limiter.
	RateLimiting RateLimitConfig `yaml:"rate_limiting,omitempty"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// SetDefaults applies defaults to all sections.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Auth.SetDefaults()
	c.Database.SetDefaults()
	c.LLM.SetDefaults()
	c.RateLimiting.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks all sections for errors.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.RateLimiting.Validate(); err != nil {
		return fmt.Errorf("rate_limiting: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// BoolPtr returns a pointer to the given bool. Useful for optional flags.
func BoolPtr(b bool) *bool {
	return &b
}

// BoolValue dereferences an optional bool, falling back to def when nil.
func BoolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
