// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/senti-tui/internal/ui/components"
	"github.com/jeranaias/senti-tui/internal/ui/styles"
	"github.com/jeranaias/senti-tui/internal/widget"
)

const (
	defaultWidth = 80
	inputHeight  = 4
	placeholder  = "Type something here..."
	submitLabel  = "Analyze Sentiment"
	inputLabel   = "Enter your text:"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model of the analyzer widget. All widget state
// lives in the Controller; the model only renders it and feeds it events.
type Model struct {
	ctx   context.Context
	ctrl  *widget.Controller
	theme *styles.Theme
	keys  KeyMap

	input    textarea.Model
	spinner  components.Spinner
	help     help.Model
	header   *components.Header
	status   *components.StatusBar
	result   *components.ResultPanel
	errPanel *components.ErrorPanel

	showHelp bool
	width    int
	height   int
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to outbound calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithHelp shows the full key help on start.
func WithHelp(show bool) Option {
	return func(m *Model) {
		m.showHelp = show
	}
}

// WithMaxEchoWidth caps the echoed text in the result panel, in columns.
func WithMaxEchoWidth(width int) Option {
	return func(m *Model) {
		m.result.MaxEcho = width
	}
}

// New creates the screen model around a Controller.
func New(ctrl *widget.Controller, theme *styles.Theme, opts ...Option) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	m := Model{
		ctx:      context.Background(),
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		input:    ta,
		spinner:  components.NewSpinner(),
		help:     help.New(),
		header:   components.NewHeader(theme),
		status:   components.NewStatusBar(theme),
		result:   components.NewResultPanel(theme),
		errPanel: components.NewErrorPanel(theme),
	}
	if a := ctrl.Analyzer(); a != nil {
		m.header.SetBackend(a.Name())
	}
	for _, opt := range opts {
		opt(&m)
	}

	for _, b := range m.keys.ShortHelp() {
		m.status.Shortcuts = append(m.status.Shortcuts, components.Shortcut{Key: b.Help().Key, Desc: b.Help().Desc})
	}

	m.input.SetValue(ctrl.Text())
	m.resize(defaultWidth, 0)
	m.syncStatus()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Controller returns the underlying Controller.
func (m Model) Controller() *widget.Controller {
	return m.ctrl
}

// resize lays out every component for a terminal of the given size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	content := m.theme.ContentWidth()
	m.header.SetWidth(content)
	m.status.SetWidth(content)
	m.result.Width = content
	m.errPanel.Width = content
	m.help.Width = content
	m.input.SetWidth(content - m.theme.InputBox.GetHorizontalFrameSize())
}

// syncStatus mirrors the Controller state into the status bar.
func (m *Model) syncStatus() {
	switch m.ctrl.State().Kind() {
	case widget.KindPending:
		m.status.Status = components.StatusAnalyzing
	case widget.KindSucceeded:
		m.status.Status = components.StatusDone
	case widget.KindInvalid:
		m.status.Status = components.StatusInvalid
	case widget.KindFailed:
		m.status.Status = components.StatusError
	default:
		m.status.Status = components.StatusReady
	}
}
