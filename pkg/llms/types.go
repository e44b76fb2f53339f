// Package llms provides the completion provider used to answer questions.
package llms

import (
	"context"
	"errors"
)

// Completion failure kinds. The question flow treats all three as a
// retryable upstream outage but logs them distinctly.
var (
	// ErrTimeout is returned when the provider call exceeds its deadline.
	ErrTimeout = errors.New("completion timed out")

	// ErrUpstream is returned when the provider reports an error or an
	// unexpected status.
	ErrUpstream = errors.New("completion upstream failure")

	// ErrMalformedResponse is returned when the provider response cannot
	// be decoded or carries no text.
	ErrMalformedResponse = errors.New("completion response malformed")
)

// Completion is the result of a successful provider call.
type Completion struct {
	// Text is the generated answer.
	Text string

	// Model is the model identifier that produced the answer.
	Model string

	// TokenCount is the provider-reported token usage, falling back to a
	// length-based estimate when the provider omits usage.
	TokenCount int
}

// Provider generates a completion for a prompt. Implementations must be
// safe for concurrent use and must bound each call with a timeout.
type Provider interface {
	// Complete generates an answer for the given prompt.
	Complete(ctx context.Context, prompt string) (*Completion, error)

	// ModelName returns the configured model identifier.
	ModelName() string
}
