package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, expands, parses, defaults and validates the configuration
// file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML bytes. Environment variables are
// expanded before parsing, so secrets never need to live in the file.
func Parse(data []byte) (*Config, error) {
	expanded := ExpandEnvVars(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config entirely from the process environment, for
// deployments that do not ship a config file. Only the secrets are read
// from the environment; everything else takes defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Auth: AuthConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Database: os.Getenv("DB_NAME"),
			Username: os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		LLM: LLMConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
