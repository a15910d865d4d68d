// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputLabel       lipgloss.Style
	InputBox         lipgloss.Style
	InputBoxFocused  lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style

	// ==========================================================================
	// SUBMIT CONTROL STYLES
	// ==========================================================================

	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Spinner        lipgloss.Style

	// ==========================================================================
	// RESULT AND ERROR PANELS
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorMessage lipgloss.Style

	ResultBox   lipgloss.Style
	ResultTitle lipgloss.Style
	ResultLabel lipgloss.Style
	ResultText  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	return NewThemeFor("auto")
}

// NewThemeFor creates a theme for a background preference: "dark" and
// "light" force the adaptive colors, anything else detects the terminal.
func NewThemeFor(preference string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch preference {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(1, 2)

	// Header
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Input area
	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputBoxFocused = t.InputBox.
		BorderForeground(Purple)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)

	// Submit control
	t.Button = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 2)

	t.ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(OverlayDim).
		Padding(0, 2)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	// Error panel
	t.ErrorBox = lipgloss.NewStyle().
		Background(ErrorBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		Padding(0, 1)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(ErrorFg)

	// Result panel
	t.ResultBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ResultTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ResultLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.ResultText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth returns the width available inside the container padding.
func (t *Theme) ContentWidth() int {
	w := t.Width - t.Container.GetHorizontalFrameSize()
	if w < 20 {
		return 20
	}
	return w
}
