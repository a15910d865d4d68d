// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
)

// probeTimeout bounds the backend health probe.
const probeTimeout = 3 * time.Second

var sectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// =============================================================================
// BACKEND PROBE
// =============================================================================

// ProbeResult is the outcome of a backend health probe.
type ProbeResult struct {
	Running bool
	Message string
	Latency time.Duration
	Err     error
}

// ProbeBackend checks that an analyzer is usable. Backends without a health
// endpoint are local and always running.
func ProbeBackend(ctx context.Context, an analyzer.Analyzer) ProbeResult {
	hc, ok := an.(analyzer.HealthChecker)
	if !ok {
		return ProbeResult{Running: true, Message: "local backend"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	resp, err := hc.CheckRunning(ctx)
	res := ProbeResult{Latency: time.Since(start), Err: err}
	if err == nil {
		res.Running = true
		if resp != nil {
			res.Message = resp.Message
		}
	}
	return res
}

// =============================================================================
// STATUS COMMAND
// =============================================================================

// HandleStatus handles "senti status".
func HandleStatus(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeCLI)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Status(ctx)
}

// Status probes the backend and reports it with the config and history state.
func (a *App) Status(ctx context.Context) error {
	data, err := a.collectStatus(ctx)
	if err != nil {
		return err
	}

	if a.Args.JSON {
		return NewJSONResponse("status", data).Write(a.Out)
	}

	fmt.Fprint(a.Out, formatStatus(data))
	return nil
}

func (a *App) collectStatus(ctx context.Context) (StatusData, error) {
	an, err := a.NewAnalyzer()
	if err != nil {
		return StatusData{}, err
	}

	data := StatusData{
		Backend:    an.Name(),
		ConfigPath: a.ConfigPath,
		History:    StatusHistory{Enabled: a.Config.History.Enabled},
	}
	if a.Config.Analyzer.Backend != config.BackendVader {
		data.Endpoint = a.Config.Analyzer.Endpoint
	}

	probe := ProbeBackend(ctx, an)
	data.Running = probe.Running
	data.Message = probe.Message
	data.LatencyMs = probe.Latency.Milliseconds()
	if probe.Err != nil {
		data.Error = probe.Err.Error()
	}

	if data.History.Enabled {
		data.History.Path = a.Config.History.Path
		if a.History != nil {
			if stats, err := a.History.Stats(ctx); err == nil {
				data.History.Entries = stats.Total
			}
		}
	}
	return data, nil
}

func formatStatus(d StatusData) string {
	var sb strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&sb, "  %s %s\n", RenderLabel(label), value)
	}

	sb.WriteString(TitleStyle.Render("senti Status") + "\n")
	sb.WriteString(RenderSeparator() + "\n\n")

	sb.WriteString(sectionStyle.Render("Backend") + "\n")
	line("Mode", ValueStyle.Render(d.Backend))
	if d.Endpoint != "" {
		line("Endpoint", ValueStyle.Render(d.Endpoint))
	}
	if d.Running {
		state := SuccessStyle.Render("[OK]") + " running"
		if d.LatencyMs > 0 {
			state += DimStyle.Render(fmt.Sprintf(" (%dms)", d.LatencyMs))
		}
		if d.Message != "" {
			state += DimStyle.Render(fmt.Sprintf(" %q", d.Message))
		}
		line("State", state)
	} else {
		line("State", ErrorStyle.Render("[FAIL]")+" "+d.Error)
	}
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("Config") + "\n")
	line("Path", ValueStyle.Render(d.ConfigPath))
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("History") + "\n")
	if !d.History.Enabled {
		line("Enabled", DimStyle.Render("no"))
	} else {
		line("Enabled", "yes")
		line("Path", ValueStyle.Render(d.History.Path))
		line("Entries", fmt.Sprint(d.History.Entries))
	}
	return sb.String()
}
