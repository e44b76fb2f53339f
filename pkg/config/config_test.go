package config

import (
	"strings"
	"testing"
	"time"
)

const validYAML = `
auth:
  secret: access-secret
  refresh_secret: refresh-secret
database:
  host: localhost
  database: answers
  username: app
  password: hunter2
llm:
  api_key: sk-test
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Auth.AccessTTL != time.Hour {
		t.Errorf("expected default access TTL 1h, got %v", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 7*24*time.Hour {
		t.Errorf("expected default refresh TTL 168h, got %v", cfg.Auth.RefreshTTL)
	}
	if cfg.LLM.Model != "claude-3-haiku-20240307" {
		t.Errorf("expected default model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 500 {
		t.Errorf("expected default max tokens 500, got %d", cfg.LLM.MaxTokens)
	}
	if !cfg.RateLimiting.IsEnabled() {
		t.Error("expected rate limiting enabled by default")
	}
	if cfg.RateLimiting.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.RateLimiting.Limit)
	}
	if cfg.RateLimiting.Window != 60*time.Second {
		t.Errorf("expected default window 60s, got %v", cfg.RateLimiting.Window)
	}
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "missing auth secret",
			mutate:  func(s string) string { return strings.Replace(s, "secret: access-secret", "secret: \"\"", 1) },
			wantErr: "auth",
		},
		{
			name:    "same access and refresh secret",
			mutate:  func(s string) string { return strings.Replace(s, "refresh-secret", "access-secret", 1) },
			wantErr: "auth",
		},
		{
			name:    "missing api key",
			mutate:  func(s string) string { return strings.Replace(s, "api_key: sk-test", "api_key: \"\"", 1) },
			wantErr: "llm",
		},
		{
			name:    "missing database name",
			mutate:  func(s string) string { return strings.Replace(s, "database: answers", "database: \"\"", 1) },
			wantErr: "database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(validYAML)))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_SECRET", "from-env")
	t.Setenv("TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${TEST_SECRET}", "from-env"},
		{"$TEST_SECRET", "from-env"},
		{"${TEST_MISSING:-fallback}", "fallback"},
		{"${TEST_SECRET:-fallback}", "from-env"},
		{"${TEST_EMPTY:-fallback}", "fallback"},
		{"prefix-${TEST_SECRET}-suffix", "prefix-from-env-suffix"},
	}

	for _, tt := range tests {
		if got := ExpandEnvVars(tt.in); got != tt.want {
			t.Errorf("ExpandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_ExpandsEnvVarsInSecrets(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "env-access-secret")

	yaml := strings.Replace(validYAML, "secret: access-secret", "secret: ${TEST_JWT_SECRET}", 1)
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Secret != "env-access-secret" {
		t.Errorf("expected expanded secret, got %q", cfg.Auth.Secret)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-access")
	t.Setenv("JWT_REFRESH_SECRET", "env-refresh")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "answers")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Secret != "env-access" {
		t.Errorf("unexpected secret: %q", cfg.Auth.Secret)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("unexpected db host: %q", cfg.Database.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Database: "answers",
		Username: "app",
		Password: "hunter2",
	}
	cfg.SetDefaults()

	dsn := cfg.DSN()
	for _, part := range []string{"host=localhost", "dbname=answers", "user=app", "password=hunter2", "port=5432"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN missing %q: %s", part, dsn)
		}
	}
}
