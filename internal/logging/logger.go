// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger for senti.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures Setup.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// File, when set, receives the log instead of Writer. Used while the
	// TUI owns the terminal.
	File string

	// Writer receives the log when File is empty. Defaults to os.Stderr.
	Writer io.Writer

	// NoColor disables ANSI colors. Always true for file output.
	NoColor bool

	// AddSource adds file:line to each record.
	AddSource bool
}

// ParseLevel converts a config level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Setup builds a tint-backed logger, installs it as the slog default and
// returns it with a close function for the underlying file, if any.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	noColor := opts.NoColor
	closer := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		noColor = true
		closer = f.Close
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  opts.AddSource,
		NoColor:    noColor,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: slog.LevelError + 1}))
}
