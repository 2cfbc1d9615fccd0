package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfhttp "github.com/Strob0t/repodoc/internal/adapter/http"
	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/domain/docs"
	"github.com/Strob0t/repodoc/internal/service"
)

const modelOutput = `{
  "overview": "widgets is a React front end.",
  "flow": ["Browser loads the app"],
  "functions": [{"name": "package.json", "responsibility": "Dependency manifest"}],
  "techStack": {"frontend": ["React"], "backend": [], "database": [], "tooling": []},
  "setup": ["npm install"]
}`

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fakeUpstreams serves the GitHub and chat completion endpoints the
// pipeline calls.
func fakeUpstreams(t *testing.T) (githubURL, llmURL string) {
	t.Helper()
	gh := http.NewServeMux()
	gh.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"name": "widgets", "default_branch": "main"})
	})
	gh.HandleFunc("/repos/acme/widgets/commits/main", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"sha": "abc123"})
	})
	gh.HandleFunc("/repos/acme/widgets/git/trees/abc123", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"sha": "abc123",
			"tree": []map[string]any{
				{"path": "package.json", "type": "blob", "sha": "b1"},
				{"path": "components/Button.tsx", "type": "blob", "sha": "b2"},
			},
		})
	})
	ghSrv := httptest.NewServer(gh)
	t.Cleanup(ghSrv.Close)

	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		writeJSON(w, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": modelOutput}}},
			"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 20},
		})
	}))
	t.Cleanup(llmSrv.Close)

	return ghSrv.URL, llmSrv.URL
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	githubURL, llmURL := fakeUpstreams(t)
	cfg := config.Defaults()
	cfg.GitHub.APIURL = githubURL
	cfg.GitHub.Timeout = 5 * time.Second
	cfg.LLM.URL = llmURL
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Timeout = 5 * time.Second
	cfg.Retry.MaxAttempts = 1
	return &cfg
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "generate", "analyze", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Version: dev")
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"generate", "https://github.com/acme/widgets", "--format", "html"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestWriteResult(t *testing.T) {
	res := &service.Result{
		Documentation: &docs.GeneratedDocumentation{Overview: "Widgets.", Setup: []string{"make"}},
		CommitHash:    "abc123",
		GeneratedAt:   "2025-01-01T00:00:00Z",
	}

	var js bytes.Buffer
	require.NoError(t, writeResult(&js, res, "acme/widgets", formatJSON, false, ""))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "abc123", decoded["commit_hash"])

	var md bytes.Buffer
	require.NoError(t, writeResult(&md, res, "acme/widgets", formatMarkdown, false, ""))
	assert.True(t, strings.HasPrefix(md.String(), "# acme/widgets\n"))
	assert.Contains(t, md.String(), "Commit `abc123`")
	assert.NotContains(t, md.String(), "\x1b[")
}

func TestBuildAppUnknownProvider(t *testing.T) {
	cfg := config.Defaults()
	cfg.LLM.Provider = "nope"
	_, err := buildApp(context.Background(), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRunGenerateEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	opts := &generateOptions{format: formatMarkdown, noColor: true}

	require.NoError(t, runGenerate(context.Background(), cfg, "https://github.com/acme/widgets", opts, &out))
	assert.Contains(t, out.String(), "# acme/widgets")
	assert.Contains(t, out.String(), "widgets is a React front end.")
	assert.Contains(t, out.String(), "- **Frontend**: React")
}

func TestRunAnalyzeEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, runAnalyze(context.Background(), cfg, "github.com/acme/widgets", &analyzeOptions{json: true}, &out))
	var res service.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "abc123", res.CommitHash)
	assert.Equal(t, "main", res.DefaultBranch)
	assert.Len(t, res.Fingerprint, 16)
	assert.Equal(t, "widgets", res.Analysis.ProjectName)
}

func TestRouterServesAPI(t *testing.T) {
	cfg := testConfig(t)
	a, err := buildApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)

	h := &cfhttp.Handlers{
		Docs:          a.docs,
		LLMProvider:   a.synth.ProviderName(),
		LLMBreaker:    a.llmBreaker,
		GitHubBreaker: a.githubBreaker,
	}
	srv := httptest.NewServer(newRouter(cfg, h, nil))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "openai", health["llm_provider"])
	assert.Equal(t, "closed", health["github_breaker"])

	gen, err := http.Post(srv.URL+"/api/generate-docs", "application/json",
		strings.NewReader(`{"repoUrl":"https://github.com/acme/widgets"}`))
	require.NoError(t, err)
	defer gen.Body.Close()
	assert.Equal(t, http.StatusOK, gen.StatusCode)

	var body service.Result
	require.NoError(t, json.NewDecoder(gen.Body).Decode(&body))
	assert.Equal(t, "abc123", body.CommitHash)
	assert.Equal(t, []string{"React"}, body.Documentation.TechStack.Frontend)
}
