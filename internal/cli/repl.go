// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/storage"
	"github.com/jeranaias/senti-tui/internal/widget"
)

const (
	replPrompt      = "senti> "
	replHistoryName = "repl_history"
	replRecentLimit = 10
)

var replPromptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("39")).
	Bold(true)

// =============================================================================
// LINE READER
// =============================================================================

// lineReader is the part of liner the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// linerReader provides line editing with a persistent history file.
type linerReader struct {
	*liner.State
	historyFile string
}

// newLinerReader opens the terminal line editor and loads the history file.
func newLinerReader(historyFile string) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &linerReader{State: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Close saves the history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = r.State.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.State.Close()
}

// replHistoryPath returns ~/.senti/repl_history, or "" when the home
// directory is unknown.
func replHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, replHistoryName)
}

// =============================================================================
// REPL COMMAND
// =============================================================================

// HandleREPL handles "senti repl".
func HandleREPL(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeCLI)
	if err != nil {
		return err
	}
	defer app.Close()

	reader := newLinerReader(replHistoryPath())
	defer reader.Close()

	return app.RunREPL(ctx, reader)
}

// RunREPL analyzes one line at a time until exit, quit, /quit or EOF.
// Ctrl-C abandons the current line only. Lines are analyzed verbatim.
func (a *App) RunREPL(ctx context.Context, in lineReader) error {
	ctrl, err := a.NewController()
	if err != nil {
		return err
	}

	if !a.Args.Quiet {
		fmt.Fprintf(a.Out, "%s %s\n", TitleStyle.Render("Sentiment Analyzer"), DimStyle.Render("("+ctrl.Analyzer().Name()+")"))
		fmt.Fprintln(a.Out, DimStyle.Render("Type text and press Enter. Commands: /help, /clear, /history, /quit"))
	}

	for {
		line, err := in.Prompt(replPromptStyle.Render(replPrompt))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// EOF (Ctrl+D) or a closed terminal ends the session.
			fmt.Fprintln(a.Out)
			return nil
		}

		cmd := strings.TrimSpace(line)
		if cmd != "" {
			in.AppendHistory(line)
		}

		if strings.EqualFold(cmd, "exit") || strings.EqualFold(cmd, "quit") {
			return nil
		}
		if strings.HasPrefix(cmd, "/") {
			if !a.replCommand(ctx, cmd, ctrl) {
				return nil
			}
			continue
		}

		state, _ := runOnce(ctx, ctrl, line)
		if a.Args.Quiet {
			if st, ok := state.(widget.Succeeded); ok {
				fmt.Fprintln(a.Out, st.Sentiment)
			} else if msg, ok := widget.ErrorMessage(state); ok {
				fmt.Fprintln(a.ErrOut, msg)
			}
			continue
		}
		fmt.Fprintln(a.Out, a.renderState(state))
	}
}

// replCommand runs a slash command and reports whether the REPL continues.
func (a *App) replCommand(ctx context.Context, cmd string, ctrl *widget.Controller) bool {
	name, _, _ := strings.Cut(cmd, " ")
	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return false
	case "/help", "/h", "/?":
		a.printREPLHelp()
	case "/clear", "/c":
		ctrl.SetText("")
		ctrl.Reset()
		if isTerminal(a.Out) {
			fmt.Fprint(a.Out, "\033[H\033[2J")
		}
	case "/history":
		a.printREPLHistory(ctx)
	default:
		fmt.Fprintf(a.ErrOut, "%s unknown command %s (try /help)\n", ErrorStyle.Render("[ERROR]"), name)
	}
	return true
}

func (a *App) printREPLHelp() {
	rows := [][2]string{
		{"<text>", "Analyze the line"},
		{"/history", "Show recent analyses (history must be enabled)"},
		{"/clear, /c", "Clear the screen and reset the result"},
		{"/help, /h", "Show this help"},
		{"/quit, exit", "Leave the REPL (Ctrl+D also works)"},
	}
	for _, r := range rows {
		fmt.Fprintf(a.Out, "  %s %s\n", RenderLabel(r[0]), DimStyle.Render(r[1]))
	}
}

func (a *App) printREPLHistory(ctx context.Context) {
	store, err := a.RequireHistory()
	if err != nil {
		fmt.Fprintf(a.ErrOut, "%s %v\n", WarningStyle.Render("[!]"), err)
		return
	}
	entries, err := store.List(ctx, replRecentLimit)
	if err != nil {
		fmt.Fprintf(a.ErrOut, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		return
	}
	fmt.Fprintln(a.Out, strings.TrimRight(storage.FormatHistoryList(entries), "\n"))
}
