package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/domain/analysis"
	"github.com/Strob0t/repodoc/internal/domain/docs"
	"github.com/Strob0t/repodoc/internal/resilience"
	"github.com/Strob0t/repodoc/internal/service"
)

type fakeDocs struct {
	result   *service.Result
	analysis *service.AnalysisResult
	err      error
	calls    int
	gotURL   string
	deadline bool
}

func (f *fakeDocs) Generate(ctx context.Context, repoURL string) (*service.Result, error) {
	f.calls++
	f.gotURL = repoURL
	_, f.deadline = ctx.Deadline()
	return f.result, f.err
}

func (f *fakeDocs) Analyze(_ context.Context, repoURL string) (*service.AnalysisResult, error) {
	f.calls++
	f.gotURL = repoURL
	return f.analysis, f.err
}

func newRouter(d DocService) chi.Router {
	r := chi.NewRouter()
	MountRoutes(r, &Handlers{
		Docs:           d,
		LLMProvider:    "openai",
		LLMBreaker:     resilience.NewBreaker(3, time.Minute),
		RequestTimeout: time.Minute,
	}, nil)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGenerateDocs(t *testing.T) {
	f := &fakeDocs{result: &service.Result{
		Documentation: &docs.GeneratedDocumentation{
			Overview:  "widgets",
			Flow:      []string{},
			Functions: []docs.Function{},
			TechStack: docs.TechStack{Frontend: []string{"Next.js"}, Backend: []string{}, Database: []string{}, Tooling: []string{}},
			Setup:     []string{},
		},
		CommitHash:  "abc123",
		GeneratedAt: "2025-01-01T00:00:00Z",
	}}

	rec := do(t, newRouter(f), http.MethodPost, "/api/generate-docs", `{"repoUrl":"https://github.com/acme/widgets"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://github.com/acme/widgets", f.gotURL)
	assert.True(t, f.deadline)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body["commit_hash"])
	assert.Equal(t, "2025-01-01T00:00:00Z", body["generated_at"])
	assert.Contains(t, body, "documentation")
}

func TestGenerateDocsMissingRepoURL(t *testing.T) {
	for _, payload := range []string{`{}`, `{"repoUrl":""}`, `{"repoUrl":"   "}`} {
		f := &fakeDocs{}
		rec := do(t, newRouter(f), http.MethodPost, "/api/generate-docs", payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		assert.JSONEq(t, `{"error":"Missing repoUrl in request body"}`, rec.Body.String())
		assert.Zero(t, f.calls)
	}
}

func TestGenerateDocsBadJSON(t *testing.T) {
	f := &fakeDocs{}
	rec := do(t, newRouter(f), http.MethodPost, "/api/generate-docs", `{"repoUrl":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.calls)
}

func TestGenerateDocsErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid url", fmt.Errorf("%w: bad host", domain.ErrInvalidInput), http.StatusBadRequest, "Invalid GitHub repository URL"},
		{"empty", domain.ErrEmptyResult, http.StatusBadRequest, "Documentation generation failed"},
		{"not found", &domain.UpstreamError{Service: "github", StatusCode: 404}, http.StatusNotFound, "repository not found"},
		{"missing key", &domain.MissingCredentialsError{Service: "openai", Setting: "LLM_API_KEY"}, http.StatusInternalServerError, "documentation service is not configured"},
		{"auth", &domain.UpstreamError{Service: "openai", StatusCode: 401, Body: "secret detail"}, http.StatusBadGateway, "upstream authentication failed"},
		{"upstream", &domain.UpstreamError{Service: "openai", StatusCode: 500}, http.StatusBadGateway, "upstream service request failed"},
		{"malformed", fmt.Errorf("decode: %w", domain.ErrMalformedModelOutput), http.StatusBadGateway, "model returned malformed output"},
		{"schema", &domain.SchemaError{Path: "techStack.frontend", Reason: "want array"}, http.StatusBadGateway, "model output did not match the documentation schema"},
		{"timeout", fmt.Errorf("llm: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "request timed out"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(&fakeDocs{err: tt.err}), http.MethodPost, "/api/generate-docs", `{"repoUrl":"https://github.com/acme/widgets"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec))
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestAnalyzeRepo(t *testing.T) {
	f := &fakeDocs{analysis: &service.AnalysisResult{
		Analysis:      &analysis.RepoAnalysis{ProjectName: "widgets"},
		CommitHash:    "abc123",
		DefaultBranch: "main",
		Fingerprint:   "00000000deadbeef",
	}}

	rec := do(t, newRouter(f), http.MethodPost, "/api/v1/analyze", `{"repoUrl":"github.com/acme/widgets"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "main", body["default_branch"])
	assert.Equal(t, "00000000deadbeef", body["fingerprint"])
	assert.Equal(t, "widgets", body["analysis"].(map[string]any)["projectName"])
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(&fakeDocs{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","llm_provider":"openai","llm_breaker":"closed","github_breaker":"disabled"}`, rec.Body.String())
}

func TestMCPMountedWhenProvided(t *testing.T) {
	r := chi.NewRouter()
	MountRoutes(r, &Handlers{Docs: &fakeDocs{}}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := do(t, r, http.MethodPost, "/mcp", `{}`)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = do(t, newRouter(&fakeDocs{}), http.MethodPost, "/mcp", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
