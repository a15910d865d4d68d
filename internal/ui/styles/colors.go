// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the senti TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, focused borders, the submit control
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, titles, labels
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SENTIMENT COLORS
// =============================================================================

// SentimentPositive - Green, affirmative labels
var SentimentPositive = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}

// SentimentNegative - Red, adverse labels
var SentimentNegative = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}

// SentimentNeutral - Gray, neutral and unrecognized labels
var SentimentNeutral = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Dimmer overlay for disabled controls
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, placeholders, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// Error panel
var ErrorBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#3F1D24"}
var ErrorFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators provides ASCII shape indicators alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

// RenderSuccess renders a success message with a checkmark indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(SentimentPositive).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with an X indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(SentimentNegative).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderStatus renders a status message based on success/failure.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
