// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for senti.
//
// Configuration is stored as TOML, with sensible defaults, .env support,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - AnalyzerConfig: Backend selection, endpoint and timeout
//   - HistoryConfig: Optional local analysis history
//   - Watcher: fsnotify-based reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SENTI_*)
//   - .env in the working directory, then ~/.senti/.env
//   - ~/.senti/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	endpoint := cfg.Analyzer.Endpoint
//	_ = cfg.Set("analyzer.timeout_seconds", "10")
package config
