package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/domain/analysis"
	"github.com/Strob0t/repodoc/internal/domain/docs"
	"github.com/Strob0t/repodoc/internal/service"
)

type mockDocs struct {
	err    error
	gotURL string
}

func (m *mockDocs) Generate(_ context.Context, repoURL string) (*service.Result, error) {
	m.gotURL = repoURL
	if m.err != nil {
		return nil, m.err
	}
	return &service.Result{
		Documentation: &docs.GeneratedDocumentation{Overview: "widgets"},
		CommitHash:    "abc123",
		GeneratedAt:   "2025-01-01T00:00:00Z",
	}, nil
}

func (m *mockDocs) Analyze(_ context.Context, repoURL string) (*service.AnalysisResult, error) {
	m.gotURL = repoURL
	if m.err != nil {
		return nil, m.err
	}
	return &service.AnalysisResult{
		Analysis:    &analysis.RepoAnalysis{ProjectName: "widgets"},
		CommitHash:  "abc123",
		Fingerprint: "00000000deadbeef",
	}, nil
}

func newTestServer(d DocService) *Server {
	return NewServer(ServerConfig{Name: "repodoc-test", Version: "0.0.0"}, ServerDeps{Docs: d})
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tools := s.MCPServer().ListTools()
	tool, ok := tools[name]
	require.True(t, ok, "tool %s not registered", name)

	result, err := tool.Handler(context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, r *mcplib.CallToolResult) string {
	t.Helper()
	text, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected TextContent")
	return text.Text
}

func TestToolsRegistered(t *testing.T) {
	tools := newTestServer(&mockDocs{}).MCPServer().ListTools()
	assert.Contains(t, tools, "generate_documentation")
	assert.Contains(t, tools, "analyze_repository")
}

func TestGenerateDocumentationTool(t *testing.T) {
	m := &mockDocs{}
	r := callTool(t, newTestServer(m), "generate_documentation", map[string]any{"repo_url": "https://github.com/acme/widgets"})

	assert.False(t, r.IsError)
	assert.Equal(t, "https://github.com/acme/widgets", m.gotURL)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &body))
	assert.Equal(t, "abc123", body["commit_hash"])
}

func TestAnalyzeRepositoryTool(t *testing.T) {
	r := callTool(t, newTestServer(&mockDocs{}), "analyze_repository", map[string]any{"repo_url": "github.com/acme/widgets"})
	assert.False(t, r.IsError)
	assert.Contains(t, resultText(t, r), "00000000deadbeef")
}

func TestToolMissingArgument(t *testing.T) {
	for _, args := range []map[string]any{nil, {"repo_url": ""}, {"repo_url": 42}} {
		m := &mockDocs{}
		r := callTool(t, newTestServer(m), "generate_documentation", args)
		assert.True(t, r.IsError)
		assert.Equal(t, "repo_url is required", resultText(t, r))
		assert.Empty(t, m.gotURL)
	}
}

func TestToolErrorsAreSanitized(t *testing.T) {
	m := &mockDocs{err: &domain.UpstreamError{Service: "openai", StatusCode: 401, Body: "secret detail"}}
	r := callTool(t, newTestServer(m), "generate_documentation", map[string]any{"repo_url": "https://github.com/acme/widgets"})
	assert.True(t, r.IsError)
	assert.Equal(t, "documentation request failed: upstream_auth", resultText(t, r))

	m = &mockDocs{err: fmt.Errorf("%w: bad host", domain.ErrInvalidInput)}
	r = callTool(t, newTestServer(m), "analyze_repository", map[string]any{"repo_url": "https://gitlab.com/a/b"})
	assert.True(t, r.IsError)
	assert.Equal(t, "Invalid GitHub repository URL", resultText(t, r))
}

func TestToolWithoutService(t *testing.T) {
	r := callTool(t, newTestServer(nil), "analyze_repository", map[string]any{"repo_url": "github.com/a/b"})
	assert.True(t, r.IsError)
}

func TestSchemaResource(t *testing.T) {
	s := newTestServer(&mockDocs{})
	req := mcplib.ReadResourceRequest{}
	req.Params.URI = schemaResourceURI

	contents, err := s.handleSchemaResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "techStack")
}

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := AuthMiddleware("s3cret", next)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bearer", "Authorization", "Bearer s3cret", http.StatusOK},
		{"api key", "X-API-Key", "s3cret", http.StatusOK},
		{"wrong", "Authorization", "Bearer nope", http.StatusForbidden},
		{"non-bearer scheme", "Authorization", "Basic czNjcmV0", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", http.NoBody)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.NotNil(t, AuthMiddleware("", next))
}
