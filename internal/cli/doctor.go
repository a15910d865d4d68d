// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/storage"
)

// doctorSample is analyzed end to end once the backend answers its probe.
const doctorSample = "I love this!"

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	checkWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	fixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			PaddingLeft(2)
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the lower-case status name used in JSON.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the styled marker for the status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return checkPassStyle.Render("[OK]")
	case CheckWarn:
		return checkWarnStyle.Render("[!!]")
	case CheckFail:
		return checkFailStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // Suggested fix
}

// Render returns the check as one line plus an optional fix hint.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.Status.Symbol(), ValueStyle.Render(c.Message))
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + fixStyle.Render("-> "+c.Fix)
	}
	return result
}

// =============================================================================
// DOCTOR COMMAND
// =============================================================================

// HandleDoctor handles "senti doctor". It runs even when the config file
// is broken, reporting that as a failed check.
func HandleDoctor(ctx context.Context, args Args) error {
	if args.NoColor {
		ForceColorsEnabled(false)
	}

	cfg, path, loadErr := LoadConfig(args)
	if loadErr != nil {
		cfg = config.Default()
		ApplyFlags(cfg, args)
	}

	checks := RunChecks(ctx, cfg, path, loadErr)
	return writeDoctor(os.Stdout, args.JSON, checks)
}

// RunChecks runs every health check against cfg. loadErr is the error, if
// any, from loading the file at path.
func RunChecks(ctx context.Context, cfg *config.Config, path string, loadErr error) []*HealthCheck {
	checks := []*HealthCheck{
		checkConfigValid(path, loadErr),
		checkConfigPermissions(path),
	}

	backend, an := checkBackendReachable(ctx, cfg)
	checks = append(checks, backend)
	checks = append(checks, checkRoundTrip(ctx, an, backend.Status == CheckPass))
	checks = append(checks, checkHistoryStore(ctx, cfg.History))
	checks = append(checks, checkLogFile(cfg.Logging.File))
	return checks
}

func writeDoctor(w io.Writer, jsonMode bool, checks []*HealthCheck) error {
	var summary DoctorSummary
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarn:
			summary.Warnings++
		case CheckFail:
			summary.Failed++
		}
	}

	var failErr error
	if summary.Failed > 0 {
		failErr = fmt.Errorf("%d health check(s) failed", summary.Failed)
	}

	if jsonMode {
		data := DoctorData{Checks: make([]DoctorCheck, 0, len(checks)), Summary: summary}
		for _, check := range checks {
			data.Checks = append(data.Checks, DoctorCheck{
				Name:    check.Name,
				Status:  check.Status.String(),
				Message: check.Message,
				Fix:     check.Fix,
			})
		}
		resp := NewJSONResponse("doctor", data)
		if failErr != nil {
			msg := failErr.Error()
			resp.Success = false
			resp.Error = &msg
		}
		if err := resp.Write(w); err != nil {
			return err
		}
		if failErr != nil {
			return &ReportedError{Err: failErr}
		}
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render("senti Doctor"))
	fmt.Fprintln(w, RenderSeparator())
	fmt.Fprintln(w)
	for _, check := range checks {
		fmt.Fprintln(w, check.Render())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, SeparatorStyle.Render(strings.Repeat("-", separatorWidth)))

	parts := []string{fmt.Sprintf("%d passed", summary.Passed)}
	if summary.Warnings > 0 {
		parts = append(parts, checkWarnStyle.Render(fmt.Sprintf("%d warning", summary.Warnings)))
	}
	if summary.Failed > 0 {
		parts = append(parts, checkFailStyle.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	fmt.Fprintln(w, DimStyle.Render(strings.Join(parts, ", ")))

	return failErr
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

func checkConfigValid(path string, loadErr error) *HealthCheck {
	check := &HealthCheck{Name: "Config Valid"}

	switch {
	case loadErr != nil:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config invalid: %v", loadErr)
		check.Fix = "Run: senti config reset"
	case path == "":
		check.Status = CheckWarn
		check.Message = "Could not determine config path"
	default:
		if _, err := os.Stat(path); os.IsNotExist(err) {
			check.Status = CheckPass
			check.Message = "Config valid (using defaults)"
		} else {
			check.Status = CheckPass
			check.Message = "Config valid"
		}
	}
	return check
}

func checkConfigPermissions(path string) *HealthCheck {
	check := &HealthCheck{Name: "Config Permissions", Status: CheckPass}

	info, err := os.Stat(path)
	if path == "" || err != nil {
		check.Message = "No config file to check"
		return check
	}
	if runtime.GOOS == "windows" {
		check.Message = "Permissions not checked on Windows"
		return check
	}

	if mode := info.Mode().Perm(); mode&0077 != 0 {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Config file is readable by others (%04o)", mode)
		check.Fix = fmt.Sprintf("Run: chmod 600 %s", path)
		return check
	}
	check.Message = "Config file is owner-only"
	return check
}

// checkBackendReachable probes the configured backend and returns the
// analyzer for the round-trip check. The analyzer is nil when it could not
// be built.
func checkBackendReachable(ctx context.Context, cfg *config.Config) (*HealthCheck, analyzer.Analyzer) {
	check := &HealthCheck{Name: "Backend Reachable"}

	an, err := analyzer.New(cfg.Analyzer, false)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Backend unusable: %v", err)
		check.Fix = `Run: senti config set analyzer.backend http`
		return check, nil
	}

	probe := ProbeBackend(ctx, an)
	if !probe.Running {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Backend at %s is not answering: %v", cfg.Analyzer.Endpoint, probe.Err)
		check.Fix = fmt.Sprintf("Start the analysis service on %s, or run: senti config set analyzer.backend vader", cfg.Analyzer.Endpoint)
		return check, an
	}

	check.Status = CheckPass
	if cfg.Analyzer.Backend == config.BackendVader {
		check.Message = "Local VADER backend ready"
	} else {
		check.Message = fmt.Sprintf("Backend at %s is running (%dms)", cfg.Analyzer.Endpoint, probe.Latency.Milliseconds())
	}
	return check, an
}

func checkRoundTrip(ctx context.Context, an analyzer.Analyzer, reachable bool) *HealthCheck {
	check := &HealthCheck{Name: "Analyze Round Trip"}
	if an == nil || !reachable {
		check.Status = CheckWarn
		check.Message = "Skipped: backend not reachable"
		return check
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := an.Analyze(ctx, doctorSample)
	switch {
	case err != nil:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Analyze failed: %v", err)
		check.Fix = "Check that the service implements POST /analyze"
	case res.Text != doctorSample:
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Backend echoed %q instead of the input", res.Text)
	default:
		check.Status = CheckPass
		check.Message = fmt.Sprintf("Analyze returned %q", res.Sentiment)
	}
	return check
}

func checkHistoryStore(ctx context.Context, cfg config.HistoryConfig) *HealthCheck {
	check := &HealthCheck{Name: "History Store", Status: CheckPass}
	if !cfg.Enabled {
		check.Message = "History disabled"
		return check
	}

	store, err := storage.Open(cfg.Path, cfg.MaxEntries)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not open history: %v", err)
		check.Fix = fmt.Sprintf("Check permissions on %s", filepath.Dir(cfg.Path))
		return check
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("History unreadable: %v", err)
		check.Fix = "Run: senti history clear"
		return check
	}
	check.Message = fmt.Sprintf("History holds %d entries", stats.Total)
	return check
}

func checkLogFile(path string) *HealthCheck {
	check := &HealthCheck{Name: "Log File"}
	if path == "" {
		check.Status = CheckWarn
		check.Message = "No log file configured; TUI logs are discarded"
		check.Fix = "Run: senti config set logging.file <path>"
		return check
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not create log directory: %v", err)
		return check
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Log file not writable: %v", err)
		check.Fix = fmt.Sprintf("Check permissions on %s", path)
		return check
	}
	f.Close()

	check.Status = CheckPass
	check.Message = "Log file writable"
	return check
}
