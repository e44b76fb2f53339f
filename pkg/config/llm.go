package config

import "fmt"

// LLMConfig configures the completion provider used to answer questions.
//
// Example:
//
//	llm:
//	  type: anthropic
//	  model: claude-3-haiku-20240307
//	  api_key: ${ANTHROPIC_API_KEY}
//	  temperature: 0.7
//	  max_tokens: 500
//	  timeout: 30
type LLMConfig struct {
	// Type is the provider type. Only "anthropic" is supported.
	Type string `yaml:"type,omitempty"`

	// Model is the model identifier sent to the provider.
	Model string `yaml:"model,omitempty"`

	// APIKey authenticates with the provider. Required.
	APIKey string `yaml:"api_key,omitempty"`

	// Host is the provider base URL. Default: https://api.anthropic.com.
	Host string `yaml:"host,omitempty"`

	// Temperature for generation. Default: 0.7.
	Temperature float64 `yaml:"temperature,omitempty"`

	// MaxTokens caps the response length. Default: 500.
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Timeout in seconds for a single completion call. Default: 30.
	Timeout int `yaml:"timeout,omitempty"`

	// MaxRetries for retryable upstream failures. Default: 2.
	MaxRetries int `yaml:"max_retries,omitempty"`

	// RetryDelay in seconds between retries. Default: 1.
	RetryDelay int `yaml:"retry_delay,omitempty"`
}

// SetDefaults applies default values to LLMConfig.
func (c *LLMConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "anthropic"
	}
	if c.Model == "" {
		c.Model = "claude-3-haiku-20240307"
	}
	if c.Host == "" {
		c.Host = "https://api.anthropic.com"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 1
	}
}

// Validate checks the LLMConfig for errors.
func (c *LLMConfig) Validate() error {
	if c.Type != "anthropic" {
		return fmt.Errorf("unsupported type %q (supported: anthropic)", c.Type)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second")
	}
	return nil
}
