// Package ollama adapts a local Ollama server to the llm.Provider port.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/JexSrs/go-ollama"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/port/llm"
)

// ProviderName is the registry name of this adapter.
const ProviderName = "ollama"

// DefaultURL is the address of a local Ollama server.
const DefaultURL = "http://localhost:11434"

// Client wraps the go-ollama Generate endpoint.
type Client struct {
	client *ollama.Ollama
}

// NewClient creates an Ollama provider. No API key is required.
func NewClient(rawURL string) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	return &Client{client: ollama.New(*u)}, nil
}

// Name implements llm.Provider.
func (c *Client) Name() string { return ProviderName }

type result struct {
	res *ollama.GenerateResponse
	err error
}

// Complete implements llm.Provider. The underlying client has no context
// support, so the call runs in a goroutine and is abandoned when ctx ends.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	gen := c.client.Generate
	builders := []func(*ollama.GenerateRequestBuilder){
		gen.WithModel(req.Model),
		gen.WithSystem(req.System),
		gen.WithPrompt(req.Prompt),
		gen.WithOptions(generateOptions(req)),
	}
	if req.JSON {
		builders = append(builders, gen.WithFormat("json"))
	}

	done := make(chan result, 1)
	go func() {
		res, err := gen(builders...)
		if err != nil {
			done <- result{err: &domain.UpstreamError{Service: ProviderName, Err: err}}
			return
		}
		if !res.Done {
			done <- result{err: &domain.UpstreamError{Service: ProviderName, Err: errors.New("generation did not complete")}}
			return
		}
		done <- result{res: res}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return &llm.Response{
			Content:   r.res.Response,
			TokensIn:  r.res.PromptEvalCount,
			TokensOut: r.res.EvalCount,
		}, nil
	}
}

// generateOptions carries the sampling parameters. WithOptions replaces the
// whole options block, so temperature is set here rather than separately.
func generateOptions(req llm.Request) ollama.Options {
	temp := req.Temperature
	opts := ollama.Options{Temperature: &temp}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		opts.NumPredict = &n
	}
	return opts
}
