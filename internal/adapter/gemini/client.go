// Package gemini adapts the Google GenAI SDK to the llm.Provider port.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/port/llm"
)

// ProviderName is the registry name of this adapter.
const ProviderName = "gemini"

// Client is a thin wrapper around the official genai client. The SDK client
// is created on first use so a missing key surfaces per request.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration

	mu  sync.Mutex
	cli *genai.Client
}

// NewClient creates a Gemini provider. baseURL is optional.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, timeout: timeout}
}

// Name implements llm.Provider.
func (c *Client) Name() string { return ProviderName }

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil {
		return c.cli, nil
	}

	cfg := &genai.ClientConfig{APIKey: c.apiKey, Backend: genai.BackendGeminiAPI}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}
	if c.timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.cli = cli
	return cli, nil
}

// Complete implements llm.Provider with one GenerateContent call.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, &domain.MissingCredentialsError{Service: ProviderName, Setting: "LLM_API_KEY"}
	}
	cli, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := cli.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	out := &llm.Response{}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		out.Content = resp.Candidates[0].Content.Parts[0].Text
	}
	if resp.UsageMetadata != nil {
		out.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
		out.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	ue := &domain.UpstreamError{Service: ProviderName, Err: err}
	var ae genai.APIError
	if errors.As(err, &ae) {
		ue.StatusCode = ae.Code
		ue.Body = ae.Message
	}
	return ue
}
