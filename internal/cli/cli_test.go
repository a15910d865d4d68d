// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/logging"
	"github.com/jeranaias/senti-tui/internal/storage"
	"github.com/jeranaias/senti-tui/internal/widget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testApp struct {
	*App
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestApp builds an App around cfg without touching the real terminal,
// the user's config or the log file.
func newTestApp(t *testing.T, cfg *config.Config, args Args) *testApp {
	t.Helper()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := &App{
		Args:       args,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Logger:     logging.Discard(),
		In:         strings.NewReader(""),
		Out:        out,
		ErrOut:     errOut,
	}
	t.Cleanup(func() { app.Close() })
	return &testApp{App: app, out: out, errOut: errOut}
}

func vaderConfig() *config.Config {
	cfg := config.Default()
	cfg.Analyzer.Backend = config.BackendVader
	cfg.History.Enabled = false
	cfg.Batch.RatePerSecond = 0
	return cfg
}

func httpConfig(endpoint string) *config.Config {
	cfg := vaderConfig()
	cfg.Analyzer.Backend = config.BackendHTTP
	cfg.Analyzer.Endpoint = endpoint
	return cfg
}

// echoServer answers /analyze by echoing the text with a fixed label.
func echoServer(t *testing.T, sentiment string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, `{"message":"Sentiment Analysis API"}`)
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": req.Text, "sentiment": sentiment})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// deadEndpoint returns the URL of a server that is no longer listening.
func deadEndpoint() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func openHistory(t *testing.T) *storage.HistoryStore {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"), 100)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func decodeResponse(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	return resp
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"tui"}, CmdTUI},
		{[]string{"analyze", "hello"}, CmdAnalyze},
		{[]string{"a", "hello"}, CmdAnalyze},
		{[]string{"repl"}, CmdREPL},
		{[]string{"batch", "in.txt"}, CmdBatch},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"doctor"}, CmdDoctor},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"history"}, CmdHistory},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"--help"}, CmdHelp},
		{[]string{"ANALYZE", "x"}, CmdAnalyze},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, "_"), func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.want, cmd)
			assert.NoError(t, args.Err)
		})
	}
}

func TestParseArgs_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args := ParseArgs([]string{
		"--json", "analyze", "--endpoint", "http://example.com:9000",
		"great", "day", "-q", "--timeout=5", "--backend=vader", "--no-color", "--config", "/tmp/c.toml",
	})

	assert.Equal(t, CmdAnalyze, cmd)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.True(t, args.NoColor)
	assert.False(t, args.Verbose)
	assert.Equal(t, "http://example.com:9000", args.Endpoint)
	assert.Equal(t, "vader", args.Backend)
	assert.Equal(t, 5, args.Timeout)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.Equal(t, []string{"great", "day"}, args.Raw)
	assert.Equal(t, "great", args.Subcommand)
}

func TestParseArgs_TimeoutDefaultsToUnset(t *testing.T) {
	_, args := ParseArgs([]string{"status"})
	assert.Equal(t, -1, args.Timeout)
}

func TestParseArgs_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"negative timeout", []string{"--timeout", "-3", "status"}},
		{"non-numeric timeout", []string{"--timeout=soon", "status"}},
		{"missing value", []string{"status", "--endpoint"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, CmdHelp, cmd)
			require.Error(t, args.Err)
			assert.Equal(t, ExitUsageError, GetExitCode(args.Err))
		})
	}
}

func TestParseArgs_UnknownCommand(t *testing.T) {
	cmd, args := ParseArgs([]string{"frobnicate"})
	assert.Equal(t, CmdHelp, cmd)
	require.Error(t, args.Err)
	assert.Contains(t, args.Err.Error(), "frobnicate")
}

func TestParseArgs_DoubleDashStopsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"analyze", "--", "--json", "is", "text"})
	assert.Equal(t, CmdAnalyze, cmd)
	assert.False(t, args.JSON)
	assert.Equal(t, []string{"--", "--json", "is", "text"}, args.Raw)

	p := NewArgParser(args.Raw, "raw")
	assert.Equal(t, "--json is text", JoinPositionalArgs(p, 0))
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "analyze", CmdAnalyze.String())
	assert.Equal(t, "tui", CmdTUI.String())
	assert.Equal(t, "help", CmdHelp.String())
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "senti version "+Version)
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	p := NewArgParser([]string{"search", "happy", "--limit", "5"})

	assert.Equal(t, "search", p.Subcommand())
	assert.Equal(t, "happy", p.Positional(1))
	assert.Equal(t, 2, p.PositionalCount())
	assert.Equal(t, 5, p.FlagIntOrDefault("limit", 20))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParser_KnownBoolFlagsNeverTakeValues(t *testing.T) {
	p := NewArgParser([]string{"--raw", "great", "day"}, "raw")
	assert.True(t, p.BoolFlag("raw"))
	assert.Equal(t, []string{"great", "day"}, p.PositionalFrom(0))

	unknown := NewArgParser([]string{"--raw", "great", "day"})
	assert.Equal(t, "great", unknown.Flag("raw"))
	assert.Equal(t, []string{"day"}, unknown.PositionalFrom(0))
}

func TestArgParser_EqualsForm(t *testing.T) {
	p := NewArgParser([]string{"--limit=7", "--raw=false", "--verbose=true"}, "raw")
	assert.Equal(t, "7", p.Flag("limit"))
	assert.False(t, p.BoolFlag("raw"))
	assert.True(t, p.HasFlag("raw"))
	assert.True(t, p.BoolFlag("verbose"))
}

func TestArgParser_DashIsPositional(t *testing.T) {
	p := NewArgParser([]string{"-"})
	assert.Equal(t, 1, p.PositionalCount())
	assert.Equal(t, "-", p.Positional(0))
}

func TestArgParser_FlagDefaults(t *testing.T) {
	p := NewArgParser([]string{"--limit", "abc"})
	assert.Equal(t, 20, p.FlagIntOrDefault("limit", 20))
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))

	_, err := p.FlagInt("limit")
	assert.Error(t, err)
}

func TestParseIntWithValidation(t *testing.T) {
	n, err := ParseIntWithValidation("12", "--limit")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "0", "-1", "ten"} {
		_, err := ParseIntWithValidation(bad, "--limit")
		assert.Error(t, err, bad)
	}
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", NewUsageError("bad", ""), ExitUsageError},
		{"missing argument", ErrMissingArgument("text", analyzeUsage), ExitUsageError},
		{"validation", NewValidationError("text", "", widget.MsgEmptyInput), ExitValidationError},
		{"empty text", analyzer.ErrEmptyText, ExitValidationError},
		{"not found", NewNotFoundError("file", "x.txt"), ExitNotFoundError},
		{"entry not found", fmt.Errorf("lookup: %w", storage.ErrEntryNotFound), ExitNotFoundError},
		{"config", &ConfigError{Path: "c.toml", Err: errors.New("bad toml")}, ExitConfigError},
		{"config validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"deadline", context.DeadlineExceeded, ExitTimeoutError},
		{"timeout", &analyzer.ClientError{Type: analyzer.ErrTypeTimeout}, ExitTimeoutError},
		{"not running", &AnalysisError{Message: widget.MsgFailure, Cause: &analyzer.ClientError{Type: analyzer.ErrTypeNotRunning}}, ExitNetworkError},
		{"bad status", &analyzer.ClientError{Type: analyzer.ErrTypeBadStatus, StatusCode: 500}, ExitNetworkError},
		{"reported keeps code", &ReportedError{Err: NewValidationError("text", "", "blank")}, ExitValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := &ConfigError{Path: "/etc/senti.toml", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/etc/senti.toml")
}

// =============================================================================
// APP TESTS (app.go)
// =============================================================================

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	ApplyFlags(cfg, Args{Endpoint: "http://127.0.0.1:9999", Backend: "vader", Timeout: 0, Verbose: true})

	assert.Equal(t, "http://127.0.0.1:9999", cfg.Analyzer.Endpoint)
	assert.Equal(t, "vader", cfg.Analyzer.Backend)
	assert.Equal(t, 0, cfg.Analyzer.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyFlags_UnsetLeavesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzer.TimeoutSeconds = 12
	ApplyFlags(cfg, Args{Timeout: -1, Quiet: true})

	assert.Equal(t, config.DefaultEndpoint, cfg.Analyzer.Endpoint)
	assert.Equal(t, 12, cfg.Analyzer.TimeoutSeconds)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analyzer]\nbackend = \"http\"\nendpoint = \"http://file:8000\"\n"), 0600))

	cfg, got, err := LoadConfig(Args{ConfigPath: path, Backend: "vader", Timeout: -1})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "vader", cfg.Analyzer.Backend)
	assert.Equal(t, "http://file:8000", cfg.Analyzer.Endpoint)
}

func TestLoadConfig_InvalidFlagIsConfigError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	_, _, err := LoadConfig(Args{ConfigPath: path, Backend: "oracle", Timeout: -1})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestHistoryHook_RecordsSettlements(t *testing.T) {
	store := openHistory(t)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, Quiet: true})
	ta.History = store

	require.NoError(t, ta.Analyze(context.Background(), []string{"I love this!"}))

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "I love this!", entries[0].Text)
	assert.Equal(t, analyzer.LabelPositive, entries[0].Sentiment)
	assert.Equal(t, "vader", entries[0].Backend)
	assert.NotNil(t, entries[0].Score)
	assert.True(t, entries[0].Succeeded())
}

func TestHistoryHook_RecordsFailures(t *testing.T) {
	store := openHistory(t)
	ta := newTestApp(t, httpConfig(deadEndpoint()), Args{Timeout: -1, Quiet: true})
	ta.History = store

	err := ta.Analyze(context.Background(), []string{"hello"})
	require.Error(t, err)

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Succeeded())
	assert.NotEmpty(t, entries[0].Error)
}

func TestRequireHistory_Disabled(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})

	_, err := ta.RequireHistory()
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// ANALYZE TESTS (analyze.go)
// =============================================================================

func TestAnalyze_HTTPBackendQuiet(t *testing.T) {
	srv := echoServer(t, "positive")
	ta := newTestApp(t, httpConfig(srv.URL), Args{Timeout: -1, Quiet: true})

	require.NoError(t, ta.Analyze(context.Background(), []string{"great", "day"}))
	assert.Equal(t, "positive\n", ta.out.String())
}

func TestAnalyze_RendersResultPanel(t *testing.T) {
	srv := echoServer(t, "negative")
	ta := newTestApp(t, httpConfig(srv.URL), Args{Timeout: -1})

	require.NoError(t, ta.Analyze(context.Background(), []string{"awful weather"}))
	out := ta.out.String()
	assert.Contains(t, out, "Result:")
	assert.Contains(t, out, "awful weather")
	assert.Contains(t, out, "Negative")
}

func TestAnalyze_JSON(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, JSON: true})

	require.NoError(t, ta.Analyze(context.Background(), []string{"I love this!"}))

	resp := decodeResponse(t, ta.out.Bytes())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "analyze", resp["command"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "I love this!", data["text"])
	assert.Equal(t, "positive", data["sentiment"])
	assert.Equal(t, "affirmative", data["tone"])
	assert.Equal(t, "vader", data["backend"])
	assert.Contains(t, data, "score")
}

func TestAnalyze_BlankStdinIsInvalid(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.In = strings.NewReader("   \n")

	err := ta.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, ExitValidationError, GetExitCode(err))
	assert.Contains(t, ta.out.String(), widget.MsgEmptyInput)

	var reported *ReportedError
	assert.ErrorAs(t, err, &reported)
}

func TestAnalyze_NoInput(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.In = nil

	err := ta.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestAnalyze_ReadsStdin(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, JSON: true})
	ta.In = strings.NewReader("first line\nI love this!\n")

	require.NoError(t, ta.Analyze(context.Background(), []string{"-"}))

	data := decodeResponse(t, ta.out.Bytes())["data"].(map[string]interface{})
	assert.Equal(t, "first line\nI love this!", data["text"])
}

func TestAnalyze_BackendDown(t *testing.T) {
	ta := newTestApp(t, httpConfig(deadEndpoint()), Args{Timeout: -1, JSON: true})

	err := ta.Analyze(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))

	resp := decodeResponse(t, ta.out.Bytes())
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], widget.MsgFailure)
	assert.Equal(t, widget.MsgFailure, resp["data"].(map[string]interface{})["error"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "hello", data["text"])
	assert.NotContains(t, data, "sentiment")
}

func TestAnalyze_MalformedResponseIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"text":"hello"}`)
	}))
	defer srv.Close()
	ta := newTestApp(t, httpConfig(srv.URL), Args{Timeout: -1})

	err := ta.Analyze(context.Background(), []string{"hello"})
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
	assert.Contains(t, ta.out.String(), "Error connecting")
}

func TestAnalyze_Raw(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})

	require.NoError(t, ta.Analyze(context.Background(), []string{"--raw", "I", "love", "this!"}))

	var data AnalyzeData
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &data))
	assert.Equal(t, "I love this!", data.Text)
	assert.Equal(t, "positive", data.Sentiment)
}

// =============================================================================
// BATCH TESTS (batch.go)
// =============================================================================

func TestBatch_QuietLabels(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, Quiet: true})
	ta.In = strings.NewReader("I love this!\n\n   \nI hate this. It is terrible and awful.\r\n")

	require.NoError(t, ta.Batch(context.Background(), nil))
	assert.Equal(t, "positive\nnegative\n", ta.out.String())
}

func TestBatch_JSONLinesAndSummary(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, JSON: true})
	ta.In = strings.NewReader("I love this!\n\nI hate this. It is terrible and awful.\n")

	require.NoError(t, ta.Batch(context.Background(), []string{"-"}))

	lines := strings.Split(strings.TrimSpace(ta.out.String()), "\n")
	require.Len(t, lines, 3)

	var first BatchLine
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "positive", first.Sentiment)

	var second BatchLine
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "negative", second.Sentiment)

	var summary map[string]BatchSummary
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &summary))
	assert.Equal(t, 2, summary["summary"].Total)
	assert.Equal(t, 2, summary["summary"].Succeeded)
	assert.Equal(t, 1, summary["summary"].ByLabel["positive"])
}

func TestBatch_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("I love this!\n"), 0600))
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})

	require.NoError(t, ta.Batch(context.Background(), []string{path}))
	out := ta.out.String()
	assert.Contains(t, out, "Positive")
	assert.Contains(t, out, "Succeeded")
}

func TestBatch_MissingFile(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})

	err := ta.Batch(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestBatch_FailuresAreReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()
	ta := newTestApp(t, httpConfig(srv.URL), Args{Timeout: -1, Quiet: true})
	ta.In = strings.NewReader("one\ntwo\n")

	err := ta.Batch(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 lines failed")
	assert.Equal(t, ExitGeneralError, GetExitCode(err))
	assert.Equal(t, "error\nerror\n", ta.out.String())
}

func TestNewBatchLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, newBatchLimiter(0, 3).Limit())

	l := newBatchLimiter(2, 0)
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 1, l.Burst())
}

func TestFormatBatchSummary_Empty(t *testing.T) {
	assert.Contains(t, formatBatchSummary(BatchSummary{}), "No input lines.")
}

// =============================================================================
// REPL TESTS (repl.go)
// =============================================================================

type promptStep struct {
	line string
	err  error
}

// scriptedReader replays prompt results and ends with EOF.
type scriptedReader struct {
	steps   []promptStep
	history []string
	closed  bool
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.steps) == 0 {
		return "", io.EOF
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step.line, step.err
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func TestRunREPL_Session(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	in := &scriptedReader{steps: []promptStep{
		{line: "I love this!"},
		{err: liner.ErrPromptAborted},
		{line: "/help"},
		{line: "/bogus"},
		{line: "   "},
		{line: "exit"},
		{line: "never read"},
	}}

	require.NoError(t, ta.RunREPL(context.Background(), in))

	out := ta.out.String()
	assert.Contains(t, out, "Sentiment Analyzer")
	assert.Contains(t, out, "Positive")
	assert.Contains(t, out, "/history")
	assert.Contains(t, out, widget.MsgEmptyInput)
	assert.Contains(t, ta.errOut.String(), "unknown command /bogus")

	assert.Len(t, in.steps, 1, "exit must end the session")
	assert.Equal(t, []string{"I love this!", "/help", "/bogus", "exit"}, in.history)
}

func TestRunREPL_QuietAndEOF(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, Quiet: true})
	in := &scriptedReader{steps: []promptStep{
		{line: "I love this!"},
		{line: "I hate this. It is terrible and awful."},
	}}

	require.NoError(t, ta.RunREPL(context.Background(), in))
	assert.Equal(t, "positive\nnegative\n\n", ta.out.String())
}

func TestRunREPL_SlashQuit(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, Quiet: true})
	in := &scriptedReader{steps: []promptStep{{line: "/q"}, {line: "I love this!"}}}

	require.NoError(t, ta.RunREPL(context.Background(), in))
	assert.Empty(t, ta.out.String())
}

func TestRunREPL_HistoryCommand(t *testing.T) {
	store := openHistory(t)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, Quiet: true})
	ta.History = store
	in := &scriptedReader{steps: []promptStep{{line: "I love this!"}, {line: "/history"}}}

	require.NoError(t, ta.RunREPL(context.Background(), in))
	assert.Contains(t, ta.out.String(), "I love this!")
}

// =============================================================================
// HISTORY COMMAND TESTS (history.go)
// =============================================================================

func seedHistory(t *testing.T, store *storage.HistoryStore) []string {
	t.Helper()
	score := 0.8
	var ids []string
	for _, e := range []storage.Entry{
		{Text: "sunny and warm", Sentiment: "positive", Score: &score, Backend: "vader", DurationMs: 1},
		{Text: "server down", Backend: "http", Error: "connection refused", DurationMs: 3},
	} {
		id, err := store.Record(context.Background(), e)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestHistoryCommand_ListAndSearch(t *testing.T) {
	store := openHistory(t)
	seedHistory(t, store)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.History = store

	require.NoError(t, ta.HistoryCommand(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "sunny and warm")
	assert.Contains(t, ta.out.String(), "server down")

	ta.out.Reset()
	require.NoError(t, ta.HistoryCommand(context.Background(), []string{"search", "sunny"}))
	assert.Contains(t, ta.out.String(), "sunny and warm")
	assert.NotContains(t, ta.out.String(), "server down")
}

func TestHistoryCommand_ListJSONLimit(t *testing.T) {
	store := openHistory(t)
	seedHistory(t, store)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1, JSON: true})
	ta.History = store

	require.NoError(t, ta.HistoryCommand(context.Background(), []string{"list", "--limit", "1"}))
	resp := decodeResponse(t, ta.out.Bytes())
	assert.Len(t, resp["data"], 1)
}

func TestHistoryCommand_BadLimit(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.History = openHistory(t)

	err := ta.HistoryCommand(context.Background(), []string{"list", "--limit", "zero"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHistoryCommand_Show(t *testing.T) {
	store := openHistory(t)
	ids := seedHistory(t, store)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.History = store

	require.NoError(t, ta.HistoryCommand(context.Background(), []string{"show", ids[1]}))
	assert.Contains(t, ta.out.String(), "connection refused")

	err := ta.HistoryCommand(context.Background(), []string{"show", "does-not-exist"})
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = ta.HistoryCommand(context.Background(), []string{"show"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHistoryCommand_StatsAndClear(t *testing.T) {
	store := openHistory(t)
	seedHistory(t, store)
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.History = store

	require.NoError(t, ta.HistoryCommand(context.Background(), []string{"stats"}))
	assert.NotEmpty(t, ta.out.String())

	ta.out.Reset()
	require.NoError(t, ta.HistoryCommand(context.Background(), []string{"clear"}))
	assert.Contains(t, ta.out.String(), "Removed 2 entries")

	entries, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryCommand_UnknownSubcommand(t *testing.T) {
	ta := newTestApp(t, vaderConfig(), Args{Timeout: -1})
	ta.History = openHistory(t)

	err := ta.HistoryCommand(context.Background(), []string{"rewind"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// CONFIG COMMAND TESTS (config.go)
// =============================================================================

func configArgs(t *testing.T, raw ...string) Args {
	t.Helper()
	return Args{Timeout: -1, ConfigPath: filepath.Join(t.TempDir(), "config.toml"), Raw: raw}
}

func TestRunConfig_SetThenGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	args := configArgs(t, "set", "analyzer.endpoint", "http://example.com:9000")

	var buf bytes.Buffer
	require.NoError(t, RunConfig(&buf, args))
	assert.Contains(t, buf.String(), "analyzer.endpoint = http://example.com:9000")
	assert.FileExists(t, args.ConfigPath)

	buf.Reset()
	args.Raw = []string{"get", "analyzer.endpoint"}
	require.NoError(t, RunConfig(&buf, args))
	assert.Equal(t, "http://example.com:9000\n", buf.String())
}

func TestRunConfig_SetErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		raw  []string
		want int
	}{
		{"unknown key", []string{"set", "analyzer.color", "blue"}, ExitNotFoundError},
		{"bad int", []string{"set", "analyzer.timeout_seconds", "soon"}, ExitValidationError},
		{"fails validation", []string{"set", "ui.theme", "purple"}, ExitValidationError},
		{"missing value", []string{"set", "ui.theme"}, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunConfig(io.Discard, configArgs(t, tt.raw...))
			require.Error(t, err)
			assert.Equal(t, tt.want, GetExitCode(err))
		})
	}
}

func TestRunConfig_GetUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	err := RunConfig(io.Discard, configArgs(t, "get", "nope"))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestRunConfig_ShowJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	args := configArgs(t)
	args.JSON = true
	args.Backend = "vader"

	var buf bytes.Buffer
	require.NoError(t, RunConfig(&buf, args))

	data := decodeResponse(t, buf.Bytes())["data"].(map[string]interface{})
	assert.Equal(t, args.ConfigPath, data["path"])
	values := data["values"].(map[string]interface{})
	assert.Equal(t, "vader", values["analyzer.backend"])
	assert.Len(t, values, len(config.GetAllKeys()))
}

func TestRunConfig_PathAndReset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	args := configArgs(t, "path")

	var buf bytes.Buffer
	require.NoError(t, RunConfig(&buf, args))
	assert.Equal(t, args.ConfigPath+"\n", buf.String())

	args.Raw = []string{"reset"}
	args.Quiet = true
	buf.Reset()
	require.NoError(t, RunConfig(&buf, args))
	assert.Empty(t, buf.String())

	cfg, err := config.LoadFrom(args.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Analyzer.Endpoint, cfg.Analyzer.Endpoint)
}

func TestRunConfig_UnknownSubcommand(t *testing.T) {
	err := RunConfig(io.Discard, configArgs(t, "explode"))
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// STATUS AND DOCTOR TESTS (status.go, doctor.go)
// =============================================================================

func TestProbeBackend(t *testing.T) {
	vader, err := analyzer.New(vaderConfig().Analyzer, false)
	require.NoError(t, err)
	res := ProbeBackend(context.Background(), vader)
	assert.True(t, res.Running)
	assert.Equal(t, "local backend", res.Message)

	srv := echoServer(t, "positive")
	client, err := analyzer.New(httpConfig(srv.URL).Analyzer, false)
	require.NoError(t, err)
	res = ProbeBackend(context.Background(), client)
	assert.True(t, res.Running)
	assert.Equal(t, "Sentiment Analysis API", res.Message)

	down, err := analyzer.New(httpConfig(deadEndpoint()).Analyzer, false)
	require.NoError(t, err)
	res = ProbeBackend(context.Background(), down)
	assert.False(t, res.Running)
	assert.Error(t, res.Err)
}

func TestStatus_JSON(t *testing.T) {
	srv := echoServer(t, "positive")
	ta := newTestApp(t, httpConfig(srv.URL), Args{Timeout: -1, JSON: true})

	require.NoError(t, ta.Status(context.Background()))

	data := decodeResponse(t, ta.out.Bytes())["data"].(map[string]interface{})
	assert.Equal(t, "http", data["backend"])
	assert.Equal(t, srv.URL, data["endpoint"])
	assert.Equal(t, true, data["running"])
}

func TestStatus_DownStillSucceeds(t *testing.T) {
	ta := newTestApp(t, httpConfig(deadEndpoint()), Args{Timeout: -1})

	require.NoError(t, ta.Status(context.Background()))
	assert.Contains(t, ta.out.String(), "senti Status")
	assert.Contains(t, ta.out.String(), "[FAIL]")
}

func TestRunChecks_AllPass(t *testing.T) {
	cfg := vaderConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "senti.log")
	path := filepath.Join(t.TempDir(), "config.toml")

	checks := RunChecks(context.Background(), cfg, path, nil)
	require.Len(t, checks, 6)
	for _, c := range checks {
		assert.Equal(t, CheckPass, c.Status, "%s: %s", c.Name, c.Message)
	}

	var buf bytes.Buffer
	require.NoError(t, writeDoctor(&buf, false, checks))
	assert.Contains(t, buf.String(), "6 passed")
}

func TestRunChecks_BrokenConfigAndDeadBackend(t *testing.T) {
	cfg := httpConfig(deadEndpoint())
	cfg.Logging.File = filepath.Join(t.TempDir(), "senti.log")

	checks := RunChecks(context.Background(), cfg, "", errors.New("bad toml"))

	byName := make(map[string]*HealthCheck)
	for _, c := range checks {
		byName[c.Name] = c
	}
	assert.Equal(t, CheckFail, byName["Config Valid"].Status)
	assert.Equal(t, CheckFail, byName["Backend Reachable"].Status)
	assert.Equal(t, CheckWarn, byName["Analyze Round Trip"].Status)

	var buf bytes.Buffer
	err := writeDoctor(&buf, true, checks)
	require.Error(t, err)
	var reported *ReportedError
	assert.ErrorAs(t, err, &reported)

	resp := decodeResponse(t, buf.Bytes())
	assert.Equal(t, false, resp["success"])
	summary := resp["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["failed"])
}

func TestRunChecks_HistoryStore(t *testing.T) {
	cfg := vaderConfig()
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	check := checkHistoryStore(context.Background(), cfg.History)
	assert.Equal(t, CheckPass, check.Status)
	assert.Contains(t, check.Message, "0 entries")
}

func TestCheckLogFile_Unset(t *testing.T) {
	check := checkLogFile("")
	assert.Equal(t, CheckWarn, check.Status)
	assert.NotEmpty(t, check.Fix)
}

// =============================================================================
// TUI AND HELP TESTS (tui.go, help.go)
// =============================================================================

func TestReloadMessage(t *testing.T) {
	msg := ReloadMessage(nil, errors.New("bad toml"), Args{Timeout: -1})
	assert.Error(t, msg.Err)
	assert.Nil(t, msg.Analyzer)

	cfg := config.Default()
	cfg.UI.MaxEchoWidth = 33
	msg = ReloadMessage(cfg, nil, Args{Timeout: -1, Backend: "vader"})
	require.NoError(t, msg.Err)
	require.NotNil(t, msg.Analyzer)
	assert.Equal(t, "vader", msg.Analyzer.Name())
	assert.Equal(t, 33, msg.MaxEchoWidth)

	bad := config.Default()
	bad.UI.Theme = "neon"
	msg = ReloadMessage(bad, nil, Args{Timeout: -1})
	assert.Error(t, msg.Err)
}

func TestUsageMarkdown(t *testing.T) {
	md := UsageMarkdown()
	assert.Contains(t, md, "# senti "+Version)
	for _, cmd := range []string{"analyze", "repl", "batch", "status", "doctor", "config", "history"} {
		assert.Contains(t, md, "senti "+cmd)
	}
}

func TestRenderUsage(t *testing.T) {
	out := RenderUsage(80)
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "Exit codes")
}
