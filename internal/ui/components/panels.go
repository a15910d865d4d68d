// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
	"github.com/jeranaias/senti-tui/internal/util"
)

// =============================================================================
// RESULT PANEL
// =============================================================================

// ResultPanel shows the echoed text and the styled sentiment label.
type ResultPanel struct {
	Text      string
	Sentiment string
	Width     int
	MaxEcho   int // echo truncation in columns; zero means the panel width
	theme     *styles.Theme
}

// NewResultPanel creates an empty result panel.
func NewResultPanel(theme *styles.Theme) *ResultPanel {
	return &ResultPanel{Width: 60, theme: theme}
}

// EchoLine returns the echoed text collapsed to one line and truncated to
// the available width.
func (p *ResultPanel) EchoLine() string {
	limit := p.Width - p.theme.ResultBox.GetHorizontalFrameSize() - lipgloss.Width("Text: ")
	if p.MaxEcho > 0 && p.MaxEcho < limit {
		limit = p.MaxEcho
	}
	return util.TruncateWidth(util.SingleLine(p.Text), max(limit, 1))
}

// View renders the panel.
func (p *ResultPanel) View() string {
	t := p.theme
	lines := lipgloss.JoinVertical(lipgloss.Left,
		t.ResultTitle.Render("Result:"),
		t.ResultLabel.Render("Text: ")+t.ResultText.Render(p.EchoLine()),
		t.ResultLabel.Render("Sentiment: ")+styles.SentimentTone(p.Sentiment).Indicator()+" "+styles.RenderSentiment(p.Sentiment),
	)
	return t.ResultBox.Width(max(p.Width-t.ResultBox.GetHorizontalBorderSize(), 10)).Render(lines)
}

// =============================================================================
// ERROR PANEL
// =============================================================================

// ErrorPanel shows a validation or failure message.
type ErrorPanel struct {
	Message string
	Width   int
	theme   *styles.Theme
}

// NewErrorPanel creates an empty error panel.
func NewErrorPanel(theme *styles.Theme) *ErrorPanel {
	return &ErrorPanel{Width: 60, theme: theme}
}

// View renders the panel.
func (p *ErrorPanel) View() string {
	t := p.theme
	msg := t.ErrorMessage.Render(styles.StatusIndicators.Error + " " + p.Message)
	return t.ErrorBox.Width(max(p.Width-t.ErrorBox.GetHorizontalBorderSize(), 10)).Render(msg)
}
