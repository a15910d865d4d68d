// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: server.URL})
}

func TestClient_AnalyzeSuccess(t *testing.T) {
	var gotBody AnalyzeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("path = %q, want /analyze", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  I love this!  ","sentiment":"positive"}`))
	})

	res, err := client.Analyze(context.Background(), "  I love this!  ")
	require.NoError(t, err)
	assert.Equal(t, "  I love this!  ", gotBody.Text, "text is sent untrimmed")
	assert.Equal(t, "  I love this!  ", res.Text)
	assert.Equal(t, LabelPositive, res.Sentiment)
	assert.Equal(t, "http", res.Backend)
	assert.Nil(t, res.Score)
}

func TestClient_AnalyzeUnknownLabelTolerated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"ok","sentiment":"mixed","extra":42}`))
	})

	res, err := client.Analyze(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "mixed", res.Sentiment)
}

func TestClient_AnalyzeAcceptsAny2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"text":"hi","sentiment":"neutral"}`))
	})

	res, err := client.Analyze(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, LabelNeutral, res.Sentiment)
}

func TestClient_AnalyzeBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Analyze(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsBadStatus(err))
	assert.True(t, errors.Is(err, ErrBadStatus))

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusInternalServerError, clientErr.StatusCode)
}

func TestClient_AnalyzeMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing sentiment", `{"text":"hello"}`},
		{"missing text", `{"sentiment":"positive"}`},
		{"empty object", `{}`},
		{"wrong types", `{"text":1,"sentiment":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Analyze(context.Background(), "hello")
			require.Error(t, err)
			assert.True(t, IsInvalidResponse(err), "got %v", err)
		})
	}
}

func TestClient_AnalyzeConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := client.Analyze(context.Background(), "whatever")
	require.Error(t, err)
	assert.True(t, IsNotRunning(err), "got %v", err)
	assert.True(t, errors.Is(err, ErrNotRunning))
}

func TestClient_AnalyzeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Analyze(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestClient_AnalyzeContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClientWithConfig(&ClientConfig{BaseURL: server.URL})
	_, err := client.Analyze(ctx, "slow")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestClient_AnalyzeEmptyTextMakesNoCall(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.Analyze(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyText)
	assert.Zero(t, calls)
}

func TestClient_CheckRunning(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" || r.Method != http.MethodGet {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"message":"Sentiment Analysis API is running"}`))
	})

	health, err := client.CheckRunning(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sentiment Analysis API is running", health.Message)
}

func TestClient_CheckRunningNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	health, err := client.CheckRunning(context.Background())
	require.NoError(t, err)
	assert.Empty(t, health.Message)
}

func TestClient_CheckRunningDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClientWithConfig(&ClientConfig{BaseURL: url}).CheckRunning(context.Background())
	assert.True(t, IsNotRunning(err))
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://host:1/"})
	assert.Equal(t, "http://host:1", client.BaseURL())
	assert.Zero(t, client.httpClient.Timeout, "no timeout unless configured")

	client = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "not_running", ErrTypeNotRunning.String())
	assert.Equal(t, "invalid_response", ErrTypeInvalidResponse.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
