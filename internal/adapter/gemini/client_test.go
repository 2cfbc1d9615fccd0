package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/port/llm"
)

func TestCompleteMissingKey(t *testing.T) {
	c := NewClient("", "", time.Second)
	_, err := c.Complete(context.Background(), llm.Request{Model: "gemini-2.0-flash", Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrUpstreamAuth)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"overview\":\"x\"}"}]}}],"usageMetadata":{"promptTokenCount":5,"candidatesTokenCount":3}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Second)
	resp, err := c.Complete(context.Background(), llm.Request{Model: "gemini-2.0-flash", System: "json", Prompt: "x", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"overview":"x"}`, resp.Content)
	assert.Equal(t, 5, resp.TokensIn)
	assert.Equal(t, 3, resp.TokensOut)
}

func TestMapError(t *testing.T) {
	err := mapError(context.Background(), genai.APIError{Code: http.StatusForbidden, Message: "denied"})
	assert.ErrorIs(t, err, domain.ErrUpstreamAuth)

	err = mapError(context.Background(), genai.APIError{Code: http.StatusServiceUnavailable, Message: "busy"})
	assert.ErrorIs(t, err, domain.ErrUpstreamRequest)
	assert.True(t, domain.IsRetryable(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mapError(ctx, genai.APIError{Code: 500}), context.Canceled)
}
