// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/widget"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen. The error and result panels are mutually
// exclusive and follow the Controller state.
func (m Model) View() string {
	sections := []string{
		m.header.View(),
		"",
		m.theme.InputLabel.Render(inputLabel),
		m.renderInput(),
		m.renderSubmit(),
	}

	if panel := m.renderPanel(); panel != "" {
		sections = append(sections, "", panel)
	}

	sections = append(sections, "")
	if m.showHelp {
		m.help.ShowAll = true
		sections = append(sections, m.help.View(m.keys), "")
	}
	sections = append(sections, m.status.View())

	return m.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderInput() string {
	box := m.theme.InputBox
	if m.input.Focused() {
		box = m.theme.InputBoxFocused
	}
	return box.Render(m.input.View())
}

// renderSubmit shows the submit control, or the busy indicator in its place
// while a call is pending.
func (m Model) renderSubmit() string {
	if m.ctrl.InFlight() {
		return m.theme.ButtonDisabled.Render(m.spinner.View())
	}
	return m.theme.Button.Render(submitLabel)
}

func (m Model) renderPanel() string {
	switch s := m.ctrl.State().(type) {
	case widget.Invalid, widget.Failed:
		msg, _ := widget.ErrorMessage(s)
		m.errPanel.Message = msg
		return m.errPanel.View()
	case widget.Succeeded:
		m.result.Text = s.Text
		m.result.Sentiment = s.Sentiment
		return m.result.View()
	default:
		return ""
	}
}
