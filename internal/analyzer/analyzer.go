// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/senti-tui/internal/config"
)

// Analyzer classifies a piece of text.
// Implementations must echo the analyzed text in Result.Text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
	Name() string
}

// HealthChecker is implemented by backends that can be probed.
type HealthChecker interface {
	CheckRunning(ctx context.Context) (*HealthResponse, error)
}

// New builds the analyzer selected by cfg. When tracing is true the
// analyzer is wrapped so each call produces a span.
func New(cfg config.AnalyzerConfig, tracing bool) (Analyzer, error) {
	var a Analyzer

	switch cfg.Backend {
	case config.BackendHTTP, "":
		a = NewClientWithConfig(&ClientConfig{
			BaseURL:   cfg.Endpoint,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			UserAgent: cfg.UserAgent,
		})
	case config.BackendVader:
		a = NewVaderAnalyzer()
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", cfg.Backend)
	}

	if tracing {
		a = Traced(a)
	}
	return a, nil
}
