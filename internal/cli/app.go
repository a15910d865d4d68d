// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/logging"
	"github.com/jeranaias/senti-tui/internal/storage"
	"github.com/jeranaias/senti-tui/internal/telemetry"
	"github.com/jeranaias/senti-tui/internal/widget"
)

// Mode selects where an App sends its logs.
type Mode int

const (
	// ModeCLI logs to stderr.
	ModeCLI Mode = iota
	// ModeTUI logs to the configured log file, since the TUI owns the terminal.
	ModeTUI
)

// historyWriteTimeout bounds a single history insert from the settle hook.
const historyWriteTimeout = 2 * time.Second

// App is the wiring shared by every command: config, logger, tracing and
// the optional history store.
type App struct {
	Args       Args
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	// History is nil when history is disabled.
	History *storage.HistoryStore

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	closers  []func() error
	shutdown func(context.Context) error
}

// ResolveConfigPath returns --config when given, else ~/.senti/config.toml.
func ResolveConfigPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// LoadConfig loads the config file, applies command-line overrides and
// validates the result.
func LoadConfig(args Args) (*config.Config, string, error) {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return nil, "", &ConfigError{Err: err}
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, path, &ConfigError{Path: path, Err: err}
	}

	ApplyFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, path, &ConfigError{Path: path, Err: err}
	}
	return cfg, path, nil
}

// ApplyFlags applies global flag overrides on top of file and env values.
func ApplyFlags(cfg *config.Config, args Args) {
	if args.Endpoint != "" {
		cfg.Analyzer.Endpoint = args.Endpoint
	}
	if args.Backend != "" {
		cfg.Analyzer.Backend = args.Backend
	}
	if args.Timeout >= 0 {
		cfg.Analyzer.TimeoutSeconds = args.Timeout
	}
	if args.Verbose {
		cfg.Logging.Level = "debug"
	} else if args.Quiet {
		cfg.Logging.Level = "error"
	}
}

// NewApp loads configuration and sets up logging, tracing and history.
// Callers must Close the App.
func NewApp(ctx context.Context, args Args, mode Mode) (*App, error) {
	if args.NoColor {
		ForceColorsEnabled(false)
	}

	cfg, path, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}

	app := &App{
		Args:       args,
		Config:     cfg,
		ConfigPath: path,
		In:         os.Stdin,
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		shutdown:   func(context.Context) error { return nil },
	}

	if err := app.setupLogging(mode); err != nil {
		app.Close()
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := app.setupTracing(ctx, mode); err != nil {
		app.Logger.Warn("tracing disabled", "error", err)
	}

	if cfg.History.Enabled {
		store, err := storage.Open(cfg.History.Path, cfg.History.MaxEntries)
		if err != nil {
			// History is optional; the widget still works without it.
			app.Logger.Warn("history unavailable", "path", cfg.History.Path, "error", err)
		} else {
			app.History = store
			app.closers = append(app.closers, store.Close)
		}
	}

	return app, nil
}

func (a *App) setupLogging(mode Mode) error {
	opts := logging.Options{Level: a.Config.Logging.Level}

	switch mode {
	case ModeTUI:
		if a.Config.Logging.File != "" {
			opts.File = a.Config.Logging.File
		} else {
			opts.Writer = io.Discard
		}
	default:
		opts.Writer = a.ErrOut
		opts.NoColor = a.Args.NoColor || os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr)
	}

	logger, closeLog, err := logging.Setup(opts)
	if err != nil {
		a.Logger = logging.Discard()
		return err
	}
	a.Logger = logger
	a.closers = append(a.closers, closeLog)
	return nil
}

func (a *App) setupTracing(ctx context.Context, mode Mode) error {
	if !a.Config.Logging.Tracing {
		return nil
	}

	var w io.Writer = a.ErrOut
	if mode == ModeTUI {
		w = io.Discard
		if file := a.Config.Logging.File; file != "" {
			if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, f.Close)
			w = f
		}
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Options{
		Enabled: true,
		Writer:  w,
		Version: Version,
	})
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

// NewAnalyzer builds the analyzer selected by the current config.
func (a *App) NewAnalyzer() (analyzer.Analyzer, error) {
	an, err := analyzer.New(a.Config.Analyzer, a.Config.Logging.Tracing)
	if err != nil {
		return nil, &ConfigError{Path: a.ConfigPath, Err: err}
	}
	return an, nil
}

// NewController builds a widget controller wired to the configured analyzer,
// the App logger and, when enabled, the history store.
func (a *App) NewController() (*widget.Controller, error) {
	an, err := a.NewAnalyzer()
	if err != nil {
		return nil, err
	}

	opts := []widget.Option{widget.WithLogger(a.Logger)}
	if a.History != nil {
		opts = append(opts, widget.WithSettleHook(HistoryHook(a.History, a.Logger)))
	}
	return widget.NewController(an, opts...), nil
}

// HistoryHook returns a settle hook that records every settlement in store.
// Recording failures are logged and never reach the widget.
func HistoryHook(store *storage.HistoryStore, logger *slog.Logger) widget.SettleHook {
	return func(s widget.Settlement) {
		entry := storage.Entry{
			Text:       s.Call.Text,
			Backend:    s.Call.Backend(),
			DurationMs: s.Outcome.Duration.Milliseconds(),
		}

		switch st := s.State.(type) {
		case widget.Succeeded:
			entry.Sentiment = st.Sentiment
			if s.Outcome.Result != nil {
				entry.Score = s.Outcome.Result.Score
			}
		case widget.Failed:
			entry.Error = st.Message
			if st.Cause != nil {
				entry.Error = st.Cause.Error()
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()
		if _, err := store.Record(ctx, entry); err != nil {
			logger.Warn("failed to record history", "call_id", s.Call.ID, "error", err)
		}
	}
}

// RequireHistory returns the history store or an error explaining how to
// enable it.
func (a *App) RequireHistory() (*storage.HistoryStore, error) {
	if a.History != nil {
		return a.History, nil
	}
	if !a.Config.History.Enabled {
		return nil, NewUsageError("history is disabled", "senti config set history.enabled true")
	}
	return nil, fmt.Errorf("history store at %s could not be opened; see the log for details", a.Config.History.Path)
}

// Close flushes tracing and releases the history store and log file.
func (a *App) Close() error {
	var errs []error

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
