// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the senti TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the widget title, subtitle and active backend.
type Header struct {
	Title    string
	Subtitle string
	Backend  string // "http", "vader", or empty to hide the badge
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with the widget's default copy.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "Sentiment Analyzer",
		Subtitle: "Enter text to get a random sentiment analysis",
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetBackend updates the backend badge
func (h *Header) SetBackend(name string) {
	h.Backend = name
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	if h.Backend != "" {
		badge := lipgloss.NewStyle().
			Foreground(styles.Purple).
			Render("[" + strings.ToUpper(h.Backend) + "]")
		title += " " + badge
	}

	subtitle := h.theme.HeaderSubtitle.
		Width(max(h.Width, 20)).
		Render(h.Subtitle)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}
