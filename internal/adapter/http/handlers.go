package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Strob0t/repodoc/internal/resilience"
	"github.com/Strob0t/repodoc/internal/service"
)

// DocService is the documentation pipeline the handlers drive.
type DocService interface {
	Generate(ctx context.Context, repoURL string) (*service.Result, error)
	Analyze(ctx context.Context, repoURL string) (*service.AnalysisResult, error)
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Docs           DocService
	LLMProvider    string
	LLMBreaker     *resilience.Breaker
	GitHubBreaker  *resilience.Breaker
	RequestTimeout time.Duration
}

type repoRequest struct {
	RepoURL string `json:"repoUrl"`
}

// GenerateDocs handles POST /api/generate-docs.
func (h *Handlers) GenerateDocs(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[repoRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		writeError(w, http.StatusBadRequest, "Missing repoUrl in request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res, err := h.Docs.Generate(ctx, req.RepoURL)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnalyzeRepo handles POST /api/v1/analyze.
func (h *Handlers) AnalyzeRepo(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[repoRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		writeError(w, http.StatusBadRequest, "Missing repoUrl in request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	res, err := h.Docs.Analyze(ctx, req.RepoURL)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"llm_provider":   h.LLMProvider,
		"llm_breaker":    breakerState(h.LLMBreaker),
		"github_breaker": breakerState(h.GitHubBreaker),
	})
}

func (h *Handlers) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), h.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

func breakerState(b *resilience.Breaker) string {
	if b == nil {
		return "disabled"
	}
	return b.State()
}
