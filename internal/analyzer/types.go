// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analyzer provides the sentiment backends used by the widget.
package analyzer

import "time"

// =============================================================================
// SENTIMENT LABELS
// =============================================================================

// Known sentiment labels. The label set is open: backends may return
// anything and callers must tolerate unknown values.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	Text string `json:"text"` // Verbatim user input, never trimmed
}

// AnalyzeResponse is the response body of POST /analyze.
// Fields are pointers so that a missing field can be told apart from an empty one.
type AnalyzeResponse struct {
	Text      *string `json:"text"`
	Sentiment *string `json:"sentiment"`
}

// HealthResponse is the optional JSON body of GET /.
type HealthResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// RESULT
// =============================================================================

// Result is a settled analysis.
type Result struct {
	// Text is the analyzed input as echoed by the backend.
	Text string `json:"text"`

	// Sentiment is the classification label.
	Sentiment string `json:"sentiment"`

	// Score is the compound polarity when the backend computes one locally.
	Score *float64 `json:"score,omitempty"`

	// Backend names the analyzer that produced the result.
	Backend string `json:"backend"`

	// Duration is the wall time of the call.
	Duration time.Duration `json:"duration_ns"`
}
