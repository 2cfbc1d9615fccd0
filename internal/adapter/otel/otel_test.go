package otel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Strob0t/repodoc/internal/config"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), config.OTEL{ServiceName: "repodoc"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestMetricsRecordWithNoopProvider(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordStage(ctx, "fetch", 15*time.Millisecond, true)
	m.RecordTokens(ctx, "openai", 120, 80)
	m.RecordOutcome(ctx, "")
	m.RecordOutcome(ctx, "schema")

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordStage(ctx, "fetch", time.Second, false) })
}

func TestStageSpan(t *testing.T) {
	ctx, span := StartStageSpan(context.Background(), "analyze")
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() { EndSpan(span, errors.New("boom")) })
}

func TestHTTPMiddlewarePassesThrough(t *testing.T) {
	h := HTTPMiddleware("repodoc")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
