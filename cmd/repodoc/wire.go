package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cfgithub "github.com/Strob0t/repodoc/internal/adapter/github"
	cfotel "github.com/Strob0t/repodoc/internal/adapter/otel"
	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/port/llm"
	"github.com/Strob0t/repodoc/internal/resilience"
	"github.com/Strob0t/repodoc/internal/service"
)

// app is the wired documentation pipeline shared by serve, generate and analyze.
type app struct {
	docs          *service.DocService
	synth         *service.Synthesizer
	llmBreaker    *resilience.Breaker
	githubBreaker *resilience.Breaker
	shutdown      cfotel.ShutdownFunc
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	shutdown, err := cfotel.Init(ctx, cfg.OTEL)
	if err != nil {
		return nil, fmt.Errorf("otel: %w", err)
	}
	metrics, err := cfotel.NewMetrics()
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("otel metrics: %w", err)
	}

	githubBreaker := newBreaker(cfg.Breaker)
	fetcher, err := cfgithub.NewFetcher(cfgithub.Config{
		APIURL:  cfg.GitHub.APIURL,
		Token:   cfg.GitHub.Token,
		Timeout: cfg.GitHub.Timeout,
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("github: %w", err)
	}
	fetcher.SetBreaker(githubBreaker)
	fetcher.SetRetryPolicy(retryPolicy(cfg.Retry, "github"))

	provider, err := llm.New(cfg.LLM.Provider, llm.Config{
		URL:     cfg.LLM.URL,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("llm: %w", err)
	}

	llmBreaker := newBreaker(cfg.Breaker)
	synth := service.NewSynthesizer(provider, cfg.LLM)
	synth.SetBreaker(llmBreaker)
	synth.SetRetryPolicy(retryPolicy(cfg.Retry, provider.Name()))
	synth.SetMetrics(metrics)

	docs := service.NewDocService(fetcher, synth, cfg.GitHub.Host)
	docs.SetMetrics(metrics)

	slog.Info("pipeline ready",
		"llm_provider", provider.Name(),
		"llm_model", cfg.LLM.Model,
		"github_authenticated", cfg.GitHub.Token != "",
		"otel", cfg.OTEL.Endpoint != "",
	)

	return &app{
		docs:          docs,
		synth:         synth,
		llmBreaker:    llmBreaker,
		githubBreaker: githubBreaker,
		shutdown:      shutdown,
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		slog.Warn("otel shutdown", "error", err)
	}
}

// newBreaker counts only retryable upstream failures, so a bad URL or a
// rejected key never opens the circuit.
func newBreaker(cfg config.Breaker) *resilience.Breaker {
	return resilience.NewBreaker(cfg.MaxFailures, cfg.Timeout, resilience.WithFailureFilter(domain.IsRetryable))
}

func retryPolicy(cfg config.Retry, upstream string) resilience.RetryPolicy {
	return resilience.RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
		Notify: func(err error, wait time.Duration) {
			slog.Warn("retrying upstream call", "upstream", upstream, "wait", wait, "error", err)
		},
	}
}
