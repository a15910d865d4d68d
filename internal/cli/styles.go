// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
)

// separatorWidth is the width of section rules in command output.
const separatorWidth = 41

// init matches the lipgloss color profile to the terminal, honoring
// NO_COLOR and FORCE_COLOR.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

// Command output reuses the TUI palette so "senti analyze" and the widget
// agree on what green and red mean.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)

	// LabelStyle pads field labels to a fixed column.
	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(14)

	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Emerald)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Rose)
	WarningStyle = lipgloss.NewStyle().Foreground(styles.Amber)

	// DimStyle is for hints and secondary values.
	DimStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	SeparatorStyle = lipgloss.NewStyle().Foreground(styles.Overlay)
)

// RenderSeparator renders a horizontal rule, separatorWidth wide unless a
// positive width is given.
func RenderSeparator(width ...int) string {
	w := separatorWidth
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("=", w))
}

// RenderLabel renders a label padded to the label column.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}
