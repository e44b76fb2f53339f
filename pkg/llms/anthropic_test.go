package llms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/answersai/backend/pkg/config"
)

func testProviderConfig(host string) *config.LLMConfig {
	cfg := &config.LLMConfig{
		APIKey:     "test-key",
		Host:       host,
		Timeout:    2,
		MaxRetries: 0,
	}
	cfg.SetDefaults()
	cfg.MaxRetries = 0
	return cfg
}

func TestNewAnthropicProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(&config.LLMConfig{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestComplete_Success(t *testing.T) {
	var gotRequest anthropicRequest
	var gotAPIKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{
				{Type: "text", Text: "Paris is the capital of France."},
			},
			Model: "claude-3-haiku-20240307",
			Usage: anthropicUsage{InputTokens: 12, OutputTokens: 9},
		})
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(testProviderConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	completion, err := provider.Complete(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if completion.Text != "Paris is the capital of France." {
		t.Errorf("unexpected text: %q", completion.Text)
	}
	if completion.Model != "claude-3-haiku-20240307" {
		t.Errorf("unexpected model: %q", completion.Model)
	}
	if completion.TokenCount != 21 {
		t.Errorf("expected token count 21, got %d", completion.TokenCount)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("expected api key header, got %q", gotAPIKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("unexpected anthropic-version header: %q", gotVersion)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Role != "user" {
		t.Errorf("expected a single user message, got %+v", gotRequest.Messages)
	}
}

func TestComplete_TokenCountFallsBackToTextLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "hello"}},
		})
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(testProviderConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	completion, err := provider.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.TokenCount != len("hello") {
		t.Errorf("expected fallback token count %d, got %d", len("hello"), completion.TokenCount)
	}
	// Model falls back to the configured one when the response omits it.
	if completion.Model != "claude-3-haiku-20240307" {
		t.Errorf("unexpected model fallback: %q", completion.Model)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(testProviderConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer server.Close()

	cfg := testProviderConfig(server.URL)
	cfg.Timeout = 1

	provider, err := NewAnthropicProvider(cfg)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestComplete_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(testProviderConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(anthropicResponse{})
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(testProviderConfig(server.URL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}
