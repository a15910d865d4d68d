// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONResponse is the response format for every command run with --json.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed JSON response. data may carry a
// partial result, such as the text of a failed analysis.
func NewJSONErrorResponse(command string, err error, data interface{}) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response, indented, to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND DATA TYPES
// =============================================================================

// AnalyzeData is the data of "analyze" and of each "batch --json" line.
type AnalyzeData struct {
	Text       string   `json:"text"`
	Sentiment  string   `json:"sentiment,omitempty"`
	Tone       string   `json:"tone,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Backend    string   `json:"backend"`
	DurationMs int64    `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

// BatchLine is one JSON line of "batch --json".
type BatchLine struct {
	Line int `json:"line"`
	AnalyzeData
}

// BatchSummary is the final JSON document of "batch --json".
type BatchSummary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ByLabel   map[string]int `json:"by_label"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

// StatusData is the data of "status".
type StatusData struct {
	Backend    string        `json:"backend"`
	Endpoint   string        `json:"endpoint,omitempty"`
	Running    bool          `json:"running"`
	Message    string        `json:"message,omitempty"`
	Error      string        `json:"error,omitempty"`
	LatencyMs  int64         `json:"latency_ms"`
	ConfigPath string        `json:"config_path"`
	History    StatusHistory `json:"history"`
}

// StatusHistory describes the history store in "status".
type StatusHistory struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
	Entries int    `json:"entries"`
}

// DoctorData is the data of "doctor".
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorCheck is a single check in "doctor".
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorSummary counts doctor results.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// ConfigData is the data of "config show" and "config get".
type ConfigData struct {
	Path   string                 `json:"path"`
	Values map[string]interface{} `json:"values"`
}

// VersionData is the data of "version".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}
