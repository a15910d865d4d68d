// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry installs OpenTelemetry tracing for senti.
//
// Tracing is off by default. When enabled, spans from the analyzer are
// exported as JSON to a writer (the log file while the TUI is running,
// stderr otherwise).
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.Options{
//	    Enabled: cfg.Logging.Tracing,
//	    Writer:  logFile,
//	})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
// # Privacy
//
// Spans carry the text length and the label, never the text itself.
package telemetry
