// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
)

// Environment variable names recognized by ApplyEnvOverrides.
const (
	EnvEndpoint   = "SENTI_ENDPOINT"
	EnvBackend    = "SENTI_BACKEND"
	EnvTimeout    = "SENTI_TIMEOUT"
	EnvHistory    = "SENTI_HISTORY"
	EnvHistoryDB  = "SENTI_HISTORY_PATH"
	EnvLogLevel   = "SENTI_LOG_LEVEL"
	EnvLogFile    = "SENTI_LOG_FILE"
	EnvTracing    = "SENTI_TRACING"
	EnvTheme      = "SENTI_THEME"
	EnvBatchRate  = "SENTI_BATCH_RATE"
	EnvBatchBurst = "SENTI_BATCH_BURST"
)

// DotEnvFiles returns the .env files consulted by LoadDotEnv, in load order.
// Earlier files win because gotenv never overrides variables that are already set.
func DotEnvFiles() []string {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	return files
}

// LoadDotEnv loads .env files into the process environment.
// Missing files are skipped; the real environment always takes precedence.
func LoadDotEnv() {
	for _, f := range DotEnvFiles() {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = gotenv.Load(f)
	}
}

// ApplyEnvOverrides applies SENTI_* environment variables to the config.
//
// Supported variables:
//   - SENTI_ENDPOINT: overrides analyzer.endpoint
//   - SENTI_BACKEND: overrides analyzer.backend
//   - SENTI_TIMEOUT: overrides analyzer.timeout_seconds
//   - SENTI_HISTORY: overrides history.enabled
//   - SENTI_HISTORY_PATH: overrides history.path
//   - SENTI_LOG_LEVEL: overrides logging.level
//   - SENTI_LOG_FILE: overrides logging.file
//   - SENTI_TRACING: overrides logging.tracing
//   - SENTI_THEME: overrides ui.theme
//   - SENTI_BATCH_RATE / SENTI_BATCH_BURST: override batch pacing
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		c.Analyzer.Endpoint = endpoint
	}

	if backend := os.Getenv(EnvBackend); backend != "" {
		c.Analyzer.Backend = strings.ToLower(backend)
	}

	if timeout := os.Getenv(EnvTimeout); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Analyzer.TimeoutSeconds = secs
		}
	}

	if history := os.Getenv(EnvHistory); history != "" {
		if enabled, err := parseBool(history); err == nil {
			c.History.Enabled = enabled
		}
	}

	if path := os.Getenv(EnvHistoryDB); path != "" {
		c.History.Path = path
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}

	if file := os.Getenv(EnvLogFile); file != "" {
		c.Logging.File = file
	}

	if tracing := os.Getenv(EnvTracing); tracing != "" {
		if enabled, err := parseBool(tracing); err == nil {
			c.Logging.Tracing = enabled
		}
	}

	if theme := os.Getenv(EnvTheme); theme != "" {
		c.UI.Theme = theme
	}

	if rate := os.Getenv(EnvBatchRate); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			c.Batch.RatePerSecond = r
		}
	}

	if burst := os.Getenv(EnvBatchBurst); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			c.Batch.Burst = b
		}
	}
}
