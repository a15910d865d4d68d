// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
)

// timerDelay is how long a request runs before the elapsed time is shown.
const timerDelay = time.Second

// lineFrames is an ASCII-only rotation, safe on every terminal.
var lineFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner is the busy indicator shown in place of the submit label while a
// request is in flight. Requests have no default timeout, so after a second
// it also shows how long the call has been running.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewSpinner creates an inactive spinner reading "Analyzing...".
func NewSpinner() Spinner {
	s := Spinner{
		spinner:   spinner.New(),
		message:   "Analyzing",
		showTimer: true,
	}
	s.spinner.Spinner = lineFrames
	return s
}

// SetShowTimer enables or disables the elapsed time display.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Start activates the spinner and returns the first tick.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner. Ticks still queued are ignored.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the duration since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the frame, the message and, once the call is slow, the
// elapsed time.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	out := lipgloss.NewStyle().Foreground(styles.Purple).Render(s.spinner.View()) +
		" " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(s.message+"...")

	if elapsed := s.Elapsed(); s.showTimer && elapsed >= timerDelay {
		out += lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" (" + formatElapsed(elapsed) + ")")
	}
	return out
}

// formatElapsed formats a duration as "42s" or "2m 5s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
