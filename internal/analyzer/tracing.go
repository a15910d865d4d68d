// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of analyzer spans.
const TracerName = "senti/analyzer"

// TracedAnalyzer wraps an Analyzer and records one span per call.
type TracedAnalyzer struct {
	inner  Analyzer
	tracer trace.Tracer
}

// Traced wraps inner using the global tracer provider.
func Traced(inner Analyzer) *TracedAnalyzer {
	return TracedWith(inner, otel.Tracer(TracerName))
}

// TracedWith wraps inner using an explicit tracer.
func TracedWith(inner Analyzer, tracer trace.Tracer) *TracedAnalyzer {
	return &TracedAnalyzer{inner: inner, tracer: tracer}
}

// Name reports the wrapped backend's name.
func (t *TracedAnalyzer) Name() string {
	return t.inner.Name()
}

// Unwrap returns the wrapped analyzer.
func (t *TracedAnalyzer) Unwrap() Analyzer {
	return t.inner
}

// CheckRunning forwards to the wrapped analyzer when it supports health probes.
func (t *TracedAnalyzer) CheckRunning(ctx context.Context) (*HealthResponse, error) {
	hc, ok := t.inner.(HealthChecker)
	if !ok {
		return &HealthResponse{}, nil
	}
	ctx, span := t.tracer.Start(ctx, "analyzer.check_running")
	defer span.End()

	resp, err := hc.CheckRunning(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

// Analyze calls the wrapped analyzer inside an "analyzer.analyze" span.
func (t *TracedAnalyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	ctx, span := t.tracer.Start(ctx, "analyzer.analyze")
	defer span.End()

	span.SetAttributes(
		attribute.String("backend", t.inner.Name()),
		attribute.Int("text.length", len([]rune(text))),
	)

	res, err := t.inner.Analyze(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("sentiment.label", res.Sentiment))
	if res.Score != nil {
		span.SetAttributes(attribute.Float64("sentiment.score", *res.Score))
	}
	return res, nil
}
