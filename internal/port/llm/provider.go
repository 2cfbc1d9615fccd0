// Package llm defines the port for chat-style language model completion.
package llm

import (
	"context"
	"time"
)

// Request is a single-turn completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON asks providers that support it to constrain output to a JSON object.
	JSON bool
}

// Response carries the completion text and token usage when reported.
type Response struct {
	Content   string
	TokensIn  int
	TokensOut int
}

// Provider is a language model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Config is the connection configuration handed to a provider factory.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}
