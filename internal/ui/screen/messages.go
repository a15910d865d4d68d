// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/widget"
)

// =============================================================================
// ANALYSIS MESSAGES
// =============================================================================

// AnalyzeDoneMsg delivers the settled outcome of a call back to the event loop.
type AnalyzeDoneMsg struct {
	Outcome widget.Outcome
}

// analyzeCmd runs the call off the event loop.
func analyzeCmd(ctx context.Context, call *widget.Call) tea.Cmd {
	return func() tea.Msg {
		return AnalyzeDoneMsg{Outcome: call.Do(ctx)}
	}
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent when the config file changed on disk. A nil
// Analyzer with a nil Err keeps the current analyzer.
type ConfigReloadedMsg struct {
	Analyzer     analyzer.Analyzer
	MaxEchoWidth int
	Err          error
}
