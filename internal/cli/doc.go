// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for senti.
//
// Every command shares an App, which loads the config, sets up logging,
// tracing and the history store, and builds the widget Controller that
// runs the actual analysis. The interactive widget, the one-shot analyze
// command, the REPL and batch mode all drive the same Controller, so input
// validation and error messages are identical everywhere.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global flags
//   - App: Config, logger, tracing and history wiring for one run
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAnalyze:
//	    err = cli.HandleAnalyze(ctx, args)
//	case cli.CmdBatch:
//	    err = cli.HandleBatch(ctx, args)
//	// ... other commands
//	}
//	cli.HandleErrorAndExit(err, args.JSON)
//
// # Commands Overview
//
//   - tui: Interactive widget (default)
//   - analyze: Analyze one text from the arguments or stdin
//   - repl: Line-by-line analysis
//   - batch: One text per line from a file or stdin
//   - status: Backend probe
//   - doctor: Health checks
//   - config: Configuration management
//   - history: Past analyses
//
// All commands support the --json flag.
package cli
