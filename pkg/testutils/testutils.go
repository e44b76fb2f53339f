// Package testutils provides shared fixtures for package tests.
package testutils

import (
	"context"
	"sync/atomic"

	"github.com/answersai/backend/pkg/config"
	"github.com/answersai/backend/pkg/llms"
)

// TestConfig returns a minimal valid configuration for testing.
func TestConfig() *config.Config {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:        "test-access-secret",
			RefreshSecret: "test-refresh-secret",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Database: "answers_test",
			Username: "test",
			Password: "test",
		},
		LLM: config.LLMConfig{
			APIKey: "test-api-key",
		},
	}
	cfg.SetDefaults()
	return cfg
}

// StubProvider is an llms.Provider returning a canned completion or error.
type StubProvider struct {
	Completion *llms.Completion
	Err        error
	Model      string

	// Calls counts Complete invocations.
	Calls atomic.Int64
}

func (s *StubProvider) Complete(ctx context.Context, prompt string) (*llms.Completion, error) {
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Completion != nil {
		return s.Completion, nil
	}
	return &llms.Completion{
		Text:       "stub answer to: " + prompt,
		Model:      s.ModelName(),
		TokenCount: 12,
	}, nil
}

func (s *StubProvider) ModelName() string {
	if s.Model != "" {
		return s.Model
	}
	return "claude-3-haiku-20240307"
}

var _ llms.Provider = (*StubProvider)(nil)
