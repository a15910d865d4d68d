// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages for the screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AnalyzeDoneMsg:
		return m.handleAnalyzeDone(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses. Editing keys keep working while a call is
// pending; only submission is gated by the Controller.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Newline):
		m.input.InsertString("\n")
		m.ctrl.SetText(m.input.Value())
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.ctrl.SetText("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetText(m.input.Value())
	return m, cmd
}

// submit asks the Controller for a call and, when one is issued, runs it
// alongside the busy indicator.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetText(m.input.Value())
	call, ok := m.ctrl.Submit()
	m.syncStatus()
	if !ok {
		return m, nil
	}

	m.status.Latency = 0
	m.status.Note = ""
	return m, tea.Batch(m.spinner.Start(), analyzeCmd(m.ctx, call))
}

func (m Model) handleAnalyzeDone(msg AnalyzeDoneMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Settle(msg.Outcome) {
		return m, nil
	}
	m.spinner.Stop()
	m.status.Latency = msg.Outcome.Duration
	m.syncStatus()
	return m, nil
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.Note = "config reload failed"
		return m, nil
	}
	if msg.Analyzer != nil {
		m.ctrl.SetAnalyzer(msg.Analyzer)
		m.header.SetBackend(msg.Analyzer.Name())
	}
	if msg.MaxEchoWidth > 0 {
		m.result.MaxEcho = msg.MaxEchoWidth
	}
	m.status.Note = "config reloaded"
	return m, nil
}
