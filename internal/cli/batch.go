// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/senti-tui/internal/ui/styles"
	"github.com/jeranaias/senti-tui/internal/util"
	"github.com/jeranaias/senti-tui/internal/widget"
)

const batchUsage = "senti batch [file]  (one text per line; reads stdin when no file is given)"

// maxBatchLine is the longest line the batch scanner accepts.
const maxBatchLine = 1 << 20

// batchPreviewWidth is the width of the echoed text in a result line.
const batchPreviewWidth = 50

// HandleBatch handles "senti batch".
func HandleBatch(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeCLI)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Batch(ctx, args.Raw)
}

// Batch analyzes every non-blank line of a file or stdin through a single
// Controller, paced by the configured rate limiter, and prints one result
// per line followed by a summary. It fails when any line failed.
func (a *App) Batch(ctx context.Context, raw []string) error {
	p := NewArgParser(raw)

	src, closeSrc, err := a.batchSource(p.Positional(0))
	if err != nil {
		return err
	}
	defer closeSrc()

	ctrl, err := a.NewController()
	if err != nil {
		return err
	}

	limiter := newBatchLimiter(a.Config.Batch.RatePerSecond, a.Config.Batch.Burst)
	summary := BatchSummary{ByLabel: make(map[string]int)}
	started := time.Now()
	enc := json.NewEncoder(a.Out)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("batch interrupted at line %d: %w", lineNo, err)
		}

		state, outcome := runOnce(ctx, ctrl, text)
		data := analyzeData(text, ctrl, state, outcome)

		summary.Total++
		if st, ok := state.(widget.Succeeded); ok {
			summary.Succeeded++
			summary.ByLabel[st.Sentiment]++
		} else {
			summary.Failed++
		}

		switch {
		case a.Args.JSON:
			if err := enc.Encode(BatchLine{Line: lineNo, AnalyzeData: data}); err != nil {
				return err
			}
		case a.Args.Quiet:
			if data.Sentiment != "" {
				fmt.Fprintln(a.Out, data.Sentiment)
			} else {
				fmt.Fprintln(a.Out, "error")
			}
		default:
			fmt.Fprintln(a.Out, formatBatchLine(lineNo, state))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batch input: %w", err)
	}

	summary.ElapsedMs = time.Since(started).Milliseconds()

	switch {
	case a.Args.JSON:
		if err := enc.Encode(map[string]BatchSummary{"summary": summary}); err != nil {
			return err
		}
	case !a.Args.Quiet:
		fmt.Fprint(a.Out, formatBatchSummary(summary))
	}

	if summary.Failed > 0 {
		return &ReportedError{Err: fmt.Errorf("%d of %d lines failed", summary.Failed, summary.Total)}
	}
	return nil
}

// batchSource opens the named file, or returns stdin for "" and "-".
func (a *App) batchSource(path string) (io.Reader, func(), error) {
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, NewNotFoundError("file", path)
			}
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return f, func() { f.Close() }, nil
	}

	if a.In == nil || (path == "" && isTerminal(a.In)) {
		return nil, nil, ErrMissingArgument("file", batchUsage)
	}
	return a.In, func() {}, nil
}

// newBatchLimiter paces requests. A non-positive rate disables pacing.
func newBatchLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// formatBatchLine renders one settled line: number, label and text preview,
// or the error message.
func formatBatchLine(lineNo int, state widget.State) string {
	num := DimStyle.Render(fmt.Sprintf("%4d", lineNo))

	if st, ok := state.(widget.Succeeded); ok {
		tone := styles.SentimentTone(st.Sentiment)
		label := util.PadRight(styles.DisplayLabel(st.Sentiment), 10)
		preview := util.TruncateWidth(util.SingleLine(st.Text), batchPreviewWidth)
		return fmt.Sprintf("%s %s %s %s", num, tone.Indicator(), styles.SentimentStyle(st.Sentiment).Render(label), preview)
	}

	msg, _ := widget.ErrorMessage(state)
	return fmt.Sprintf("%s %s", num, ErrorStyle.Render(styles.StatusIndicators.Error+" "+msg))
}

// formatBatchSummary renders the totals and per-label counts.
func formatBatchSummary(s BatchSummary) string {
	var sb strings.Builder
	sb.WriteString(RenderSeparator() + "\n")
	if s.Total == 0 {
		sb.WriteString("No input lines.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s %d in %s\n", RenderLabel("Analyzed"), s.Total, (time.Duration(s.ElapsedMs) * time.Millisecond).String())
	fmt.Fprintf(&sb, "%s %d\n", RenderLabel("Succeeded"), s.Succeeded)
	if s.Failed > 0 {
		fmt.Fprintf(&sb, "%s %s\n", RenderLabel("Failed"), ErrorStyle.Render(fmt.Sprint(s.Failed)))
	} else {
		fmt.Fprintf(&sb, "%s %d\n", RenderLabel("Failed"), 0)
	}

	labels := make([]string, 0, len(s.ByLabel))
	for label := range s.ByLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if s.ByLabel[labels[i]] != s.ByLabel[labels[j]] {
			return s.ByLabel[labels[i]] > s.ByLabel[labels[j]]
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels {
		fmt.Fprintf(&sb, "  %s %d\n", styles.SentimentStyle(label).Render(util.PadRight(styles.DisplayLabel(label), 10)), s.ByLabel[label])
	}
	return sb.String()
}
