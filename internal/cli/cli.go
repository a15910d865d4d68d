// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAnalyze
	CmdREPL
	CmdBatch
	CmdStatus
	CmdDoctor
	CmdConfig
	CmdHistory
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAnalyze:
		return "analyze"
	case CmdREPL:
		return "repl"
	case CmdBatch:
		return "batch"
	case CmdStatus:
		return "status"
	case CmdDoctor:
		return "doctor"
	case CmdConfig:
		return "config"
	case CmdHistory:
		return "history"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Endpoint   string
	Backend    string
	Timeout    int // Seconds; -1 when not given
	JSON       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	ConfigPath string

	// Command-specific
	Subcommand string

	// Raw args (remaining after the command word)
	Raw []string

	// Err is set when the command line could not be parsed. The command is
	// CmdHelp in that case.
	Err error
}

// globalValueFlags take a value as the next argument or after "=".
var globalValueFlags = map[string]bool{
	"--endpoint": true,
	"--backend":  true,
	"--timeout":  true,
	"--config":   true,
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument vector without the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)
	if parsedArgs.Err != nil {
		return CmdHelp, parsedArgs
	}

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 {
		parsedArgs.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "analyze", "a":
		return CmdAnalyze, parsedArgs
	case "repl":
		return CmdREPL, parsedArgs
	case "batch":
		return CmdBatch, parsedArgs
	case "status", "s":
		return CmdStatus, parsedArgs
	case "doctor":
		return CmdDoctor, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "history":
		return CmdHistory, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Err = NewUsageError(fmt.Sprintf("unknown command %q", cmd), "senti help")
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags pulls global flags out of args wherever they appear.
// Arguments after "--" are passed through untouched, "--" included, so
// command parsers can apply the same rule.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{Timeout: -1}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			remaining = append(remaining, args[i:]...)
			break
		}

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
			continue
		case "-v", "--verbose":
			parsedArgs.Verbose = true
			continue
		case "--json":
			parsedArgs.JSON = true
			continue
		case "--no-color":
			parsedArgs.NoColor = true
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if !globalValueFlags[name] {
			remaining = append(remaining, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				parsedArgs.Err = NewUsageError(fmt.Sprintf("flag %s requires a value", name), "")
				return remaining, parsedArgs
			}
			i++
			value = args[i]
		}

		switch name {
		case "--endpoint":
			parsedArgs.Endpoint = value
		case "--backend":
			parsedArgs.Backend = value
		case "--config":
			parsedArgs.ConfigPath = value
		case "--timeout":
			secs, err := strconv.Atoi(value)
			if err != nil || secs < 0 {
				parsedArgs.Err = NewUsageError(fmt.Sprintf("invalid --timeout %q: want a non-negative number of seconds", value), "")
				return remaining, parsedArgs
			}
			parsedArgs.Timeout = secs
		}
	}

	return remaining, parsedArgs
}

// =============================================================================
// VERSION
// =============================================================================

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "senti version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion(os.Stdout)
	return nil
}
