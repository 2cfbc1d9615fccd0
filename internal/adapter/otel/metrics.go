package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "repodoc"

// Metrics holds all repodoc metric instruments.
type Metrics struct {
	GenerationsStarted   metric.Int64Counter
	GenerationsCompleted metric.Int64Counter
	GenerationsFailed    metric.Int64Counter
	LLMTokens            metric.Int64Counter
	StageDuration        metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.GenerationsStarted, err = meter.Int64Counter("repodoc.generations.started",
		metric.WithDescription("Number of documentation generations started"))
	if err != nil {
		return nil, err
	}

	m.GenerationsCompleted, err = meter.Int64Counter("repodoc.generations.completed",
		metric.WithDescription("Number of documentation generations completed"))
	if err != nil {
		return nil, err
	}

	m.GenerationsFailed, err = meter.Int64Counter("repodoc.generations.failed",
		metric.WithDescription("Number of documentation generations failed, by error kind"))
	if err != nil {
		return nil, err
	}

	m.LLMTokens, err = meter.Int64Counter("repodoc.llm.tokens",
		metric.WithDescription("Tokens consumed by model calls, by direction"))
	if err != nil {
		return nil, err
	}

	m.StageDuration, err = meter.Float64Histogram("repodoc.stage.duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("ok", ok),
	))
}

// RecordTokens adds model token usage.
func (m *Metrics) RecordTokens(ctx context.Context, provider string, in, out int) {
	if m == nil {
		return
	}
	m.LLMTokens.Add(ctx, int64(in), metric.WithAttributes(attribute.String("provider", provider), attribute.String("direction", "in")))
	m.LLMTokens.Add(ctx, int64(out), metric.WithAttributes(attribute.String("provider", provider), attribute.String("direction", "out")))
}

// RecordOutcome counts a finished generation; kind is empty on success.
func (m *Metrics) RecordOutcome(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		m.GenerationsCompleted.Add(ctx, 1)
		return
	}
	m.GenerationsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", kind)))
}
