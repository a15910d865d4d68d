// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/senti-tui/internal/storage"
)

const (
	historyUsage        = "senti history [list|search <query>|show <id>|stats|clear] [--limit N]"
	defaultHistoryLimit = 20
)

// HandleHistory handles "senti history".
func HandleHistory(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeCLI)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.HistoryCommand(ctx, args.Raw)
}

// HistoryCommand runs a history subcommand against the history store.
func (a *App) HistoryCommand(ctx context.Context, raw []string) error {
	p := NewArgParser(raw)

	store, err := a.RequireHistory()
	if err != nil {
		return err
	}

	limit := defaultHistoryLimit
	if p.HasFlag("limit") {
		if limit, err = ParseIntWithValidation(p.Flag("limit"), "--limit"); err != nil {
			return NewUsageError(err.Error(), historyUsage)
		}
	}

	switch strings.ToLower(p.Subcommand()) {
	case "", "list":
		entries, err := store.List(ctx, limit)
		if err != nil {
			return err
		}
		return a.writeEntries("history list", entries)

	case "search":
		query := JoinPositionalArgs(p, 1)
		if query == "" {
			return ErrMissingArgument("query", "senti history search <query>")
		}
		entries, err := store.Search(ctx, query, limit)
		if err != nil {
			return err
		}
		return a.writeEntries("history search", entries)

	case "show":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "senti history show <id>")
		}
		entry, err := store.Get(ctx, id)
		if errors.Is(err, storage.ErrEntryNotFound) {
			return NewNotFoundError("history entry", id)
		}
		if err != nil {
			return err
		}
		return a.writeEntry(entry)

	case "stats":
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if a.Args.JSON {
			return NewJSONResponse("history stats", stats).Write(a.Out)
		}
		fmt.Fprintln(a.Out, strings.TrimRight(storage.FormatStats(stats), "\n"))
		return nil

	case "clear":
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		if a.Args.JSON {
			return NewJSONResponse("history clear", map[string]int64{"removed": n}).Write(a.Out)
		}
		if !a.Args.Quiet {
			fmt.Fprintf(a.Out, "%s Removed %d entries\n", SuccessStyle.Render("[OK]"), n)
		}
		return nil

	default:
		return NewUsageError(fmt.Sprintf("unknown history subcommand %q", p.Subcommand()), historyUsage)
	}
}

func (a *App) writeEntries(command string, entries []storage.Entry) error {
	if a.Args.JSON {
		if entries == nil {
			entries = []storage.Entry{}
		}
		return NewJSONResponse(command, entries).Write(a.Out)
	}
	fmt.Fprintln(a.Out, strings.TrimRight(storage.FormatHistoryList(entries), "\n"))
	return nil
}

func (a *App) writeEntry(e *storage.Entry) error {
	if a.Args.JSON {
		return NewJSONResponse("history show", e).Write(a.Out)
	}

	line := func(label, value string) {
		fmt.Fprintf(a.Out, "%s %s\n", RenderLabel(label), value)
	}
	line("ID", e.ID)
	line("Time", e.CreatedAt.Format("2006-01-02 15:04:05"))
	line("Backend", e.Backend)
	line("Duration", fmt.Sprintf("%dms", e.DurationMs))
	if e.Succeeded() {
		line("Sentiment", e.Sentiment)
		if e.Score != nil {
			line("Score", fmt.Sprintf("%.4f", *e.Score))
		}
	} else {
		line("Error", e.Error)
	}
	line("Text", e.Text)
	return nil
}
