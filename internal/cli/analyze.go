// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/senti-tui/internal/ui/components"
	"github.com/jeranaias/senti-tui/internal/ui/styles"
	"github.com/jeranaias/senti-tui/internal/widget"
)

const analyzeUsage = `senti analyze "text to analyze"  (or pipe text on stdin)`

// maxStdinBytes caps text read from a pipe.
const maxStdinBytes = 1 << 20

// =============================================================================
// ANALYZE COMMAND
// =============================================================================

// HandleAnalyze handles "senti analyze".
func HandleAnalyze(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeCLI)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Analyze(ctx, args.Raw)
}

// Analyze runs one analysis of the text in raw, or of stdin when raw holds
// no text, and writes the result.
//
// Flags:
//
//	--raw    print the result as highlighted JSON instead of the panel
func (a *App) Analyze(ctx context.Context, raw []string) error {
	p := NewArgParser(raw, "raw")

	text, err := a.analyzeInput(p)
	if err != nil {
		return err
	}

	ctrl, err := a.NewController()
	if err != nil {
		return err
	}

	state, outcome := runOnce(ctx, ctrl, text)
	data := analyzeData(text, ctrl, state, outcome)

	switch {
	case a.Args.JSON:
		return a.writeAnalyzeJSON(state, data)
	case p.BoolFlag("raw"):
		a.writeRaw(data)
	case a.Args.Quiet:
		if st, ok := state.(widget.Succeeded); ok {
			fmt.Fprintln(a.Out, st.Sentiment)
		}
	default:
		fmt.Fprintln(a.Out, a.renderState(state))
		if err := stateError(state); err != nil {
			return &ReportedError{Err: err}
		}
	}

	return stateError(state)
}

// analyzeInput returns the text to analyze from the positional arguments
// or, when there are none (or just "-"), from a piped stdin.
func (a *App) analyzeInput(p *ArgParser) (string, error) {
	if p.PositionalCount() > 0 && !(p.PositionalCount() == 1 && p.Positional(0) == "-") {
		return JoinPositionalArgs(p, 0), nil
	}

	if p.PositionalCount() == 0 && (a.In == nil || isTerminal(a.In)) {
		return "", ErrMissingArgument("text", analyzeUsage)
	}

	data, err := io.ReadAll(io.LimitReader(a.In, maxStdinBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return trimFinalNewline(string(data)), nil
}

// trimFinalNewline drops the single line terminator a pipe usually adds.
// Everything else is kept verbatim.
func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// runOnce is Controller.Run that also hands back the raw outcome, which
// carries the score and duration. outcome is nil when no call was made.
func runOnce(ctx context.Context, ctrl *widget.Controller, text string) (widget.State, *widget.Outcome) {
	ctrl.SetText(text)
	call, ok := ctrl.Submit()
	if !ok {
		return ctrl.State(), nil
	}
	outcome := call.Do(ctx)
	ctrl.Settle(outcome)
	return ctrl.State(), &outcome
}

// analyzeData builds the JSON view of a settled analysis.
func analyzeData(text string, ctrl *widget.Controller, state widget.State, outcome *widget.Outcome) AnalyzeData {
	data := AnalyzeData{Text: text}
	if an := ctrl.Analyzer(); an != nil {
		data.Backend = an.Name()
	}
	if outcome != nil {
		data.DurationMs = outcome.Duration.Milliseconds()
		if outcome.Result != nil {
			data.Score = outcome.Result.Score
		}
	}

	switch st := state.(type) {
	case widget.Succeeded:
		data.Text = st.Text
		data.Sentiment = st.Sentiment
		data.Tone = styles.SentimentTone(st.Sentiment).String()
	case widget.Failed:
		data.Error = st.Message
	case widget.Invalid:
		data.Error = st.Message
	}
	return data
}

// stateError converts a settled state into the command's error.
func stateError(state widget.State) error {
	switch st := state.(type) {
	case widget.Invalid:
		return NewValidationError("text", "", st.Message)
	case widget.Failed:
		return &AnalysisError{Message: st.Message, Cause: st.Cause}
	}
	return nil
}

func (a *App) writeAnalyzeJSON(state widget.State, data AnalyzeData) error {
	err := stateError(state)
	if err == nil {
		return NewJSONResponse("analyze", data).Write(a.Out)
	}
	if werr := NewJSONErrorResponse("analyze", err, data).Write(a.Out); werr != nil {
		return werr
	}
	return &ReportedError{Err: err}
}

func (a *App) writeRaw(data AnalyzeData) {
	doc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintln(a.ErrOut, err)
		return
	}
	out := string(doc)
	if ColorsEnabled() && isTerminal(a.Out) {
		out = components.HighlightJSON(out, styles.NewThemeFor(a.Config.UI.Theme).IsDark)
	}
	fmt.Fprintln(a.Out, out)
}

// renderState renders the result or error panel for a settled state.
func (a *App) renderState(state widget.State) string {
	theme := styles.NewThemeFor(a.Config.UI.Theme)
	width := min(GetTerminalWidth(), 100)

	if msg, ok := widget.ErrorMessage(state); ok {
		panel := components.NewErrorPanel(theme)
		panel.Width = width
		panel.Message = msg
		return panel.View()
	}

	st, ok := state.(widget.Succeeded)
	if !ok {
		return ""
	}
	panel := components.NewResultPanel(theme)
	panel.Width = width
	panel.MaxEcho = a.Config.UI.MaxEchoWidth
	panel.Text = st.Text
	panel.Sentiment = st.Sentiment
	return panel.View()
}
