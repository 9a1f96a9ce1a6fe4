// Package llm abstracts hosted language-model backends behind a single
// request/response plus streaming interface.
package llm

import "context"

// Provider is implemented by each model backend.
type Provider interface {
	// Chat performs one full completion.
	Chat(ctx context.Context, req *ChatRequest) (*Response, error)

	// StreamChat performs a streaming completion. The returned channel is
	// closed when the stream ends; a terminal failure arrives as an event
	// with Error set.
	StreamChat(ctx context.Context, req *ChatRequest) (<-chan StreamEvent, error)

	// Name identifies the backend ("openai", "anthropic").
	Name() string

	// DefaultModel is used when a request names no model.
	DefaultModel() string
}

// ProviderError carries a failure classification alongside the cause.
type ProviderError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }
