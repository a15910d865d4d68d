// senti - A terminal sentiment analysis widget.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/senti-tui/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	switch cmd {
	case cli.CmdAnalyze:
		err = cli.HandleAnalyze(ctx, args)
	case cli.CmdREPL:
		err = cli.HandleREPL(ctx, args)
	case cli.CmdBatch:
		err = cli.HandleBatch(ctx, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, args)
	case cli.CmdDoctor:
		err = cli.HandleDoctor(ctx, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(ctx, args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp(args)
	default:
		err = cli.HandleTUI(ctx, args)
	}

	stop()
	cli.HandleErrorAndExit(err, args.JSON)
}
