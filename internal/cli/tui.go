// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/ui/screen"
	"github.com/jeranaias/senti-tui/internal/ui/styles"
)

// HandleTUI starts the interactive widget. The config file is watched for
// changes while the program runs.
func HandleTUI(ctx context.Context, args Args) error {
	app, err := NewApp(ctx, args, ModeTUI)
	if err != nil {
		return err
	}
	defer app.Close()

	ctrl, err := app.NewController()
	if err != nil {
		return err
	}

	theme := styles.NewThemeFor(app.Config.UI.Theme)
	m := screen.New(ctrl, theme,
		screen.WithContext(ctx),
		screen.WithHelp(app.Config.UI.ShowHelp),
		screen.WithMaxEchoWidth(app.Config.UI.MaxEchoWidth),
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	watcher, err := config.NewWatcher(app.ConfigPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
		msg := ReloadMessage(cfg, err, args)
		if msg.Err != nil {
			app.Logger.Warn("config reload failed", "path", app.ConfigPath, "error", msg.Err)
		} else {
			app.Logger.Info("config reloaded", "path", app.ConfigPath, "backend", msg.Analyzer.Name())
		}
		p.Send(msg)
	})
	if err != nil {
		app.Logger.Warn("config watch disabled", "error", err)
	} else {
		if err := config.EnsureConfigDir(); err != nil {
			app.Logger.Debug("config dir unavailable", "error", err)
		}
		if err := watcher.Start(); err != nil {
			app.Logger.Warn("config watch disabled", "path", app.ConfigPath, "error", err)
		}
		defer watcher.Close()
	}

	app.Logger.Info("tui started", "backend", ctrl.Analyzer().Name(), "config", app.ConfigPath)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running senti: %w", err)
	}
	return nil
}

// ReloadMessage turns a reloaded config into a screen message. Command-line
// overrides still win over the file.
func ReloadMessage(cfg *config.Config, loadErr error, args Args) screen.ConfigReloadedMsg {
	if loadErr != nil {
		return screen.ConfigReloadedMsg{Err: loadErr}
	}

	ApplyFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		return screen.ConfigReloadedMsg{Err: err}
	}

	an, err := analyzer.New(cfg.Analyzer, cfg.Logging.Tracing)
	if err != nil {
		return screen.ConfigReloadedMsg{Err: err}
	}
	return screen.ConfigReloadedMsg{Analyzer: an, MaxEchoWidth: cfg.UI.MaxEchoWidth}
}
