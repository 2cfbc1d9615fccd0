package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	cfotel "github.com/Strob0t/repodoc/internal/adapter/otel"
	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/domain/analysis"
	"github.com/Strob0t/repodoc/internal/domain/docs"
	"github.com/Strob0t/repodoc/internal/domain/repo"
	"github.com/Strob0t/repodoc/internal/logger"
	"github.com/Strob0t/repodoc/internal/port/snapshot"
)

// DocSynthesizer produces documentation from an analysis.
type DocSynthesizer interface {
	Synthesize(ctx context.Context, a *analysis.RepoAnalysis) (*docs.GeneratedDocumentation, error)
}

// Result is the response of a documentation request.
type Result struct {
	Documentation *docs.GeneratedDocumentation `json:"documentation"`
	CommitHash    string                       `json:"commit_hash"`
	GeneratedAt   string                       `json:"generated_at"`
}

// AnalysisResult is the response of a heuristic-only analysis request.
type AnalysisResult struct {
	Analysis      *analysis.RepoAnalysis `json:"analysis"`
	CommitHash    string                 `json:"commit_hash"`
	DefaultBranch string                 `json:"default_branch"`
	Fingerprint   string                 `json:"fingerprint"`
	Truncated     bool                   `json:"truncated,omitempty"`
}

// DocService runs the fetch -> analyze -> synthesize pipeline.
type DocService struct {
	fetcher snapshot.Fetcher
	synth   DocSynthesizer
	host    string
	metrics *cfotel.Metrics
	now     func() time.Time
}

// NewDocService creates a DocService. host is the only repository host
// accepted in URLs.
func NewDocService(fetcher snapshot.Fetcher, synth DocSynthesizer, host string) *DocService {
	return &DocService{
		fetcher: fetcher,
		synth:   synth,
		host:    host,
		now:     time.Now,
	}
}

// SetMetrics enables stage and outcome metrics.
func (s *DocService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// Generate documents the repository at repoURL. Stages run in order and the
// first failure aborts the request; no partial result is returned.
func (s *DocService) Generate(ctx context.Context, repoURL string) (res *Result, err error) {
	ctx, span := cfotel.StartGenerateSpan(ctx, "generate", repoURL)
	defer func() {
		s.metrics.RecordOutcome(ctx, ErrorKind(err))
		cfotel.EndSpan(span, err)
	}()
	if s.metrics != nil {
		s.metrics.GenerationsStarted.Add(ctx, 1)
	}

	ref, err := repo.ParseURL(repoURL, s.host)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRepo(ctx, ref.FullName())

	snap, a, err := s.fetchAndAnalyze(ctx, ref)
	if err != nil {
		return nil, err
	}

	var doc *docs.GeneratedDocumentation
	err = s.stage(ctx, "synthesize", func(ctx context.Context) error {
		var serr error
		doc, serr = s.synth.Synthesize(ctx, a)
		return serr
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize documentation: %w", err)
	}

	res = &Result{
		Documentation: doc,
		CommitHash:    snap.CommitHash,
		GeneratedAt:   s.now().UTC().Format(time.RFC3339),
	}
	slog.InfoContext(ctx, "documentation generated", "commit", snap.CommitHash)
	return res, nil
}

// Analyze runs only the fetch and heuristic stages.
func (s *DocService) Analyze(ctx context.Context, repoURL string) (res *AnalysisResult, err error) {
	ctx, span := cfotel.StartGenerateSpan(ctx, "analyze", repoURL)
	defer func() { cfotel.EndSpan(span, err) }()

	ref, err := repo.ParseURL(repoURL, s.host)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRepo(ctx, ref.FullName())

	snap, a, err := s.fetchAndAnalyze(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{
		Analysis:      a,
		CommitHash:    snap.CommitHash,
		DefaultBranch: snap.DefaultBranch,
		Fingerprint:   analysis.Fingerprint(snap),
		Truncated:     snap.Truncated,
	}, nil
}

func (s *DocService) fetchAndAnalyze(ctx context.Context, ref repo.Ref) (*repo.Snapshot, *analysis.RepoAnalysis, error) {
	var snap *repo.Snapshot
	err := s.stage(ctx, "fetch", func(ctx context.Context) error {
		var ferr error
		snap, ferr = s.fetcher.Fetch(ctx, ref)
		return ferr
	}, attribute.String("repo", ref.FullName()))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	slog.InfoContext(ctx, "repository snapshot fetched",
		"branch", snap.DefaultBranch,
		"commit", snap.CommitHash,
		"files", len(snap.Files),
		"fingerprint", analysis.Fingerprint(snap),
	)

	var a *analysis.RepoAnalysis
	_ = s.stage(ctx, "analyze", func(context.Context) error {
		a = analysis.Analyze(snap)
		return nil
	})
	slog.InfoContext(ctx, "repository analyzed",
		"frontend", a.TechStack.Frontend,
		"backend", a.TechStack.Backend,
		"database", a.TechStack.Database,
		"functions", len(a.Functions),
	)
	return snap, a, nil
}

// stage runs fn inside a span and records its duration.
func (s *DocService) stage(ctx context.Context, name string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := cfotel.StartStageSpan(ctx, name, attrs...)
	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordStage(ctx, name, time.Since(start), err == nil)
	cfotel.EndSpan(span, err)
	return err
}

// ErrorKind names the failure category of err for metrics; empty for nil.
func ErrorKind(err error) string {
	var mc *domain.MissingCredentialsError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &mc):
		return "missing_credentials"
	case errors.Is(err, domain.ErrUpstreamAuth):
		return "upstream_auth"
	case errors.Is(err, domain.ErrMalformedModelOutput):
		return "malformed_output"
	case errors.Is(err, domain.ErrSchemaValidation):
		return "schema"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrUpstreamRequest):
		return "upstream_request"
	default:
		return "internal"
	}
}
