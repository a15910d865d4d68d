// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/senti-tui/internal/config"
)

const (
	configGetUsage = "senti config get <key>"
	configSetUsage = "senti config set <key> <value>"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig handles "senti config [show|get|set|path|reset]".
func HandleConfig(args Args) error {
	if args.NoColor {
		ForceColorsEnabled(false)
	}
	return RunConfig(os.Stdout, args)
}

// RunConfig runs a config subcommand, writing its output to w.
func RunConfig(w io.Writer, args Args) error {
	p := NewArgParser(args.Raw)

	switch strings.ToLower(p.Subcommand()) {
	case "", "show", "list":
		return configShow(w, args)
	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", configGetUsage)
		}
		return configGet(w, args, key)
	case "set":
		key, value := p.Positional(1), JoinPositionalArgs(p, 2)
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", configSetUsage)
		}
		return configSet(w, args, key, value)
	case "path":
		return configPath(w, args)
	case "reset":
		return configReset(w, args)
	default:
		return NewUsageError(fmt.Sprintf("unknown config subcommand %q", p.Subcommand()),
			"senti config [show|get|set|path|reset]")
	}
}

// configShow prints the effective configuration: file, environment and flags.
func configShow(w io.Writer, args Args) error {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return err
	}

	values := make(map[string]interface{}, len(config.GetAllKeys()))
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		values[key] = v
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: path, Values: values}).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("senti Config"))
	fmt.Fprintln(w, RenderSeparator())
	fmt.Fprintf(w, "%s %s\n\n", DimStyle.Render("File:"), path)

	section := ""
	for _, key := range config.GetAllKeys() {
		if sec, _, ok := strings.Cut(key, "."); ok && sec != section {
			section = sec
			fmt.Fprintln(w, sectionStyle.Render("["+section+"]"))
		}
		fmt.Fprintf(w, "  %-26s %v\n", key, values[key])
	}
	return nil
}

func configGet(w io.Writer, args Args, key string) error {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return err
	}

	value, err := cfg.Get(key)
	if err != nil {
		return NewNotFoundError("config key", key)
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: path, Values: map[string]interface{}{key: value}}).Write(w)
	}
	fmt.Fprintln(w, value)
	return nil
}

// configSet changes one key in the config file. Environment and flag
// overrides are not written back.
func configSet(w io.Writer, args Args, key, value string) error {
	path, cfg, err := loadFileConfig(args)
	if err != nil {
		return err
	}

	if _, err := cfg.Get(key); err != nil {
		return NewNotFoundError("config key", key)
	}
	if err := cfg.Set(key, value); err != nil {
		current, _ := cfg.Get(key)
		return NewValidationErrorWithExample(key, value, err.Error(),
			fmt.Sprintf("senti config set %s %v", key, current))
	}
	if err := cfg.Validate(); err != nil {
		return NewValidationError(key, value, err.Error())
	}

	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: path, Values: map[string]interface{}{key: value}}).Write(w)
	}
	if !args.Quiet {
		fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	}
	return nil
}

func configPath(w io.Writer, args Args) error {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return &ConfigError{Err: err}
	}

	if args.JSON {
		_, statErr := os.Stat(path)
		return NewJSONResponse("config", map[string]interface{}{
			"path":   path,
			"exists": statErr == nil,
		}).Write(w)
	}
	fmt.Fprintln(w, path)
	return nil
}

func configReset(w io.Writer, args Args) error {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return &ConfigError{Err: err}
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{"path": path, "reset": true}).Write(w)
	}
	if !args.Quiet {
		fmt.Fprintf(w, "%s Config reset to defaults: %s\n", SuccessStyle.Render("[OK]"), path)
	}
	return nil
}

// loadFileConfig reads only the config file, over defaults.
func loadFileConfig(args Args) (string, *config.Config, error) {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return "", nil, &ConfigError{Err: err}
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return path, nil, &ConfigError{Path: path, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, nil, &ConfigError{Path: path, Err: err}
	}
	cfg.SetDefaults()
	return path, cfg, nil
}
