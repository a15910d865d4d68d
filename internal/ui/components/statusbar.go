// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the widget status shown in the status bar.
type Status int

const (
	StatusReady Status = iota
	StatusAnalyzing
	StatusDone
	StatusInvalid
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusAnalyzing:
		return "Analyzing..."
	case StatusDone:
		return "Done"
	case StatusInvalid:
		return "Invalid input"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady, StatusDone:
		return styles.StatusIndicators.Success
	case StatusAnalyzing:
		return styles.StatusIndicators.Pending
	case StatusInvalid:
		return styles.StatusIndicators.Warning
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom line: status, last latency, a transient note
// and key hints.
type StatusBar struct {
	Status    Status
	Latency   time.Duration // zero hides the latency
	Note      string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar. Shortcuts are dropped first when space runs out.
func (s *StatusBar) View() string {
	left := s.statusStyle().Render(s.Status.Icon() + " " + s.Status.String())
	if s.Latency > 0 {
		left += s.theme.Muted.Render(" " + s.Latency.Round(time.Millisecond).String())
	}
	if s.Note != "" {
		left += s.theme.Muted.Render("  " + s.Note)
	}

	right := s.renderShortcuts()
	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - s.theme.StatusBar.GetHorizontalFrameSize()
	if right == "" || gap < 1 {
		return s.theme.StatusBar.Render(left)
	}
	return s.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderShortcuts() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusAnalyzing:
		return lipgloss.NewStyle().Foreground(styles.Purple)
	case StatusDone:
		return lipgloss.NewStyle().Foreground(styles.Emerald)
	case StatusInvalid:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextSecondary)
	}
}
