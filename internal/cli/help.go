// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

const usageMarkdown = `# senti %s

Sentiment analysis from the terminal. Type text, get back
*positive*, *negative* or *neutral* from the analysis service.

## Usage

| Command | Description |
|---|---|
| ` + "`senti`" + ` / ` + "`senti tui`" + ` | Interactive widget (default) |
| ` + "`senti analyze <text>`" + ` | Analyze once; reads stdin when no text is given |
| ` + "`senti repl`" + ` | Line-by-line analysis with history |
| ` + "`senti batch [file]`" + ` | One text per line from a file or stdin |
| ` + "`senti status`" + ` | Probe the backend |
| ` + "`senti doctor`" + ` | Run health checks |
| ` + "`senti config [show\\|get\\|set\\|path\\|reset]`" + ` | Manage ` + "`~/.senti/config.toml`" + ` |
| ` + "`senti history [list\\|search\\|show\\|stats\\|clear]`" + ` | Browse past analyses |
| ` + "`senti version`" + ` | Print version information |

## Global flags

- ` + "`--endpoint URL`" + ` analysis service base URL (default ` + "`http://localhost:8000`" + `)
- ` + "`--backend http|vader`" + ` remote service or local VADER scoring
- ` + "`--timeout SECONDS`" + ` request timeout, 0 for none
- ` + "`--config PATH`" + ` alternate config file
- ` + "`--json`" + ` machine-readable output
- ` + "`-q, --quiet`" + ` print only labels
- ` + "`-v, --verbose`" + ` debug logging
- ` + "`--no-color`" + ` disable colors (also honors ` + "`NO_COLOR`" + `)

## Command flags

- ` + "`analyze --raw`" + ` print the result as JSON, highlighted on a terminal
- ` + "`history --limit N`" + ` number of entries to list (default 20)

## TUI keys

| Key | Action |
|---|---|
| enter, ctrl+s | Analyze |
| alt+enter | New line |
| ctrl+l | Clear input |
| f1 | Toggle help |
| esc, ctrl+c | Quit |

## Exit codes

0 ok, 1 general error, 2 usage, 3 invalid input, 4 not found,
5 backend unreachable, 7 config, 8 timeout.
`

// UsageMarkdown returns the help text as markdown.
func UsageMarkdown() string {
	return fmt.Sprintf(usageMarkdown, Version)
}

// RenderUsage renders the help markdown for a terminal. It falls back to
// the raw markdown when glamour cannot render it.
func RenderUsage(width int) string {
	md := UsageMarkdown()

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// PrintUsage writes the help text: rendered on a color terminal, plain
// markdown otherwise.
func PrintUsage(w io.Writer) {
	if ColorsEnabled() && isTerminal(w) {
		fmt.Fprint(w, RenderUsage(min(GetTerminalWidth(), 100)))
		return
	}
	fmt.Fprint(w, UsageMarkdown())
}

// HandleHelp handles "senti help". On a parse error it prints a hint and
// returns the error instead of the usage.
func HandleHelp(args Args) error {
	if args.NoColor {
		ForceColorsEnabled(false)
	}
	if args.Err != nil {
		fmt.Fprintln(os.Stderr, "Run 'senti help' for usage.")
		return args.Err
	}
	PrintUsage(os.Stdout)
	return nil
}
