package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	cfotel "github.com/Strob0t/repodoc/internal/adapter/otel"
	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/domain/analysis"
	"github.com/Strob0t/repodoc/internal/domain/docs"
	"github.com/Strob0t/repodoc/internal/port/llm"
	"github.com/Strob0t/repodoc/internal/resilience"
)

// Synthesizer turns a heuristic analysis into schema-validated documentation
// with one logical model call.
type Synthesizer struct {
	provider llm.Provider
	cfg      config.LLM
	sem      *semaphore.Weighted
	breaker  *resilience.Breaker
	retry    resilience.RetryPolicy
	metrics  *cfotel.Metrics
}

// NewSynthesizer creates a Synthesizer for the given provider. At most
// cfg.MaxConcurrent completions run at once.
func NewSynthesizer(provider llm.Provider, cfg config.LLM) *Synthesizer {
	n := cfg.MaxConcurrent
	if n < 1 {
		n = 1
	}
	return &Synthesizer{
		provider: provider,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(n)),
		retry:    resilience.RetryPolicy{MaxAttempts: 1},
	}
}

// SetBreaker attaches a circuit breaker to model calls.
func (s *Synthesizer) SetBreaker(b *resilience.Breaker) { s.breaker = b }

// SetRetryPolicy configures retries of transient model failures.
func (s *Synthesizer) SetRetryPolicy(p resilience.RetryPolicy) { s.retry = p }

// SetMetrics enables token accounting.
func (s *Synthesizer) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// ProviderName reports the configured provider.
func (s *Synthesizer) ProviderName() string { return s.provider.Name() }

// Synthesize asks the model for documentation of a and validates the result.
func (s *Synthesizer) Synthesize(ctx context.Context, a *analysis.RepoAnalysis) (*docs.GeneratedDocumentation, error) {
	analysisJSON, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	schemaJSON, err := docs.SchemaJSON()
	if err != nil {
		return nil, fmt.Errorf("documentation schema: %w", err)
	}
	system, user := buildDocPrompt(analysisJSON, schemaJSON)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for model slot: %w", err)
	}
	defer s.sem.Release(1)

	req := llm.Request{
		Model:       s.cfg.Model,
		System:      system,
		Prompt:      user,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		JSON:        true,
	}

	start := time.Now()
	resp, err := resilience.Retry(ctx, s.retry, domain.IsRetryable, func(ctx context.Context) (*llm.Response, error) {
		return s.complete(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}
	slog.InfoContext(ctx, "model completion received",
		"provider", s.provider.Name(),
		"model", s.cfg.Model,
		"prompt_version", promptVersion,
		"tokens_in", resp.TokensIn,
		"tokens_out", resp.TokensOut,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.metrics.RecordTokens(ctx, s.provider.Name(), resp.TokensIn, resp.TokensOut)

	if strings.TrimSpace(resp.Content) == "" {
		return nil, domain.ErrEmptyResult
	}

	doc, err := docs.Decode(resp.Content)
	if err != nil {
		slog.WarnContext(ctx, "model output rejected", "error", err, "content", truncate(resp.Content, 200))
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return doc, nil
}

// complete runs one attempt under the per-call timeout and the breaker.
// A timed-out attempt under a live caller counts as a transport failure, so
// it is retried and counted by the breaker.
func (s *Synthesizer) complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	attemptCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var resp *llm.Response
	call := func() error {
		r, err := s.provider.Complete(attemptCtx, req)
		if err != nil {
			return domain.AttemptError(ctx, s.provider.Name(), err)
		}
		if r == nil {
			r = &llm.Response{}
		}
		resp = r
		return nil
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
