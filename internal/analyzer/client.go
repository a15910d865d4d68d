// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from an analyzer backend.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int // set for ErrTypeBadStatus
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a ClientError of the same type, so that
// errors.Is(err, ErrNotRunning) matches any not-running error.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeCanceled
	ErrTypeBadStatus
	ErrTypeInvalidResponse
	ErrTypeEmptyText
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNotRunning:
		return "not_running"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeCanceled:
		return "canceled"
	case ErrTypeBadStatus:
		return "bad_status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeEmptyText:
		return "empty_text"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning      = &ClientError{Type: ErrTypeNotRunning, Message: "analysis backend is not running"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrCanceled        = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
	ErrBadStatus       = &ClientError{Type: ErrTypeBadStatus, Message: "unexpected status"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response"}
	ErrEmptyText       = &ClientError{Type: ErrTypeEmptyText, Message: "text is empty"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the address of a locally running analysis service.
const DefaultBaseURL = "http://localhost:8000"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ClientConfig holds configuration options for the HTTP client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient overrides the underlying transport (tests, proxies).
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: "senti",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a remote analysis service over HTTP.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := analyzer.NewClientWithConfig(analyzer.DefaultConfig())
//	res, err := client.Analyze(ctx, "I love this!")
//	if analyzer.IsNotRunning(err) {
//	    log.Fatal("start the backend first")
//	}
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.UserAgent == "" {
		config.UserAgent = "senti"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// Name identifies the backend.
func (c *Client) Name() string {
	return "http"
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the service is reachable by issuing GET on the base URL.
// The service message is returned when the body carries one.
func (c *Client) CheckRunning(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeNotRunning, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{
			Type:       ErrTypeBadStatus,
			Message:    "unexpected status from backend: " + resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	health := &HealthResponse{}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, health)
	}
	return health, nil
}

// =============================================================================
// ANALYZE
// =============================================================================

// Analyze sends text to POST {base}/analyze and returns the classification.
// Any non-2xx status or a body lacking text or sentiment is an error.
func (c *Client) Analyze(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(AnalyzeRequest{Text: text})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeNotRunning, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{
			Type:       ErrTypeBadStatus,
			Message:    "analyze request failed: " + resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	var payload AnalyzeResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	var missing []string
	if payload.Text == nil {
		missing = append(missing, "text")
	}
	if payload.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if len(missing) > 0 {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("response missing %s", strings.Join(missing, " and ")),
		}
	}

	return &Result{
		Text:      *payload.Text,
		Sentiment: *payload.Sentiment,
		Backend:   c.Name(),
		Duration:  time.Since(start),
	}, nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// classifyTransportError maps an http.Client failure onto a ClientError.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeCanceled, Message: ErrCanceled.Message, Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	return &ClientError{Type: ErrTypeNotRunning, Message: ErrNotRunning.Message, Cause: err}
}

func isType(err error, t ErrorType) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == t
	}
	return false
}

// IsNotRunning checks if an error means the backend could not be reached.
func IsNotRunning(err error) bool {
	return isType(err, ErrTypeNotRunning)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return isType(err, ErrTypeTimeout)
}

// IsBadStatus checks if the backend answered with a non-2xx status.
func IsBadStatus(err error) bool {
	return isType(err, ErrTypeBadStatus)
}

// IsInvalidResponse checks if the backend answered with an unusable body.
func IsInvalidResponse(err error) bool {
	return isType(err, ErrTypeInvalidResponse)
}

// Helper to drain response body
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(r, maxResponseBytes))
	r.Close()
}
