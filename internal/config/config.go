// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for senti.
//
// Configuration file locations (in order of precedence):
//   - SENTI_* environment variables (after .env files are loaded)
//   - ~/.senti/config.toml (or the path given with --config)
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/senti-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete senti configuration.
type Config struct {
	// Version of the config file format
	Version string `toml:"version" json:"version"`

	Analyzer AnalyzerConfig `toml:"analyzer" json:"analyzer"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	History  HistoryConfig  `toml:"history" json:"history"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
	Batch    BatchConfig    `toml:"batch" json:"batch"`
}

// AnalyzerConfig selects and configures the sentiment backend.
type AnalyzerConfig struct {
	// Backend is "http" (remote /analyze endpoint) or "vader" (local scoring).
	Backend string `toml:"backend" json:"backend"`

	// Endpoint is the base URL of the analysis service. "/analyze" is appended.
	Endpoint string `toml:"endpoint" json:"endpoint"`

	// TimeoutSeconds bounds a single request. 0 means no timeout.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`

	// UserAgent is sent with every outbound request.
	UserAgent string `toml:"user_agent" json:"user_agent"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`

	// ShowHelp shows the full key help below the widget on startup.
	ShowHelp bool `toml:"show_help" json:"show_help"`

	// MaxEchoWidth caps the display width of the echoed text in the result panel.
	MaxEchoWidth int `toml:"max_echo_width" json:"max_echo_width"`
}

// HistoryConfig controls the optional local analysis history.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled" json:"enabled"`
	Path       string `toml:"path" json:"path"`
	MaxEntries int    `toml:"max_entries" json:"max_entries"`
}

// LoggingConfig controls the structured logger and tracing.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`

	// File receives log output while the TUI owns the terminal.
	File string `toml:"file" json:"file"`

	// Tracing enables OpenTelemetry spans around analyzer calls.
	Tracing bool `toml:"tracing" json:"tracing"`
}

// BatchConfig paces the batch command.
type BatchConfig struct {
	RatePerSecond float64 `toml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `toml:"burst" json:"burst"`
}

// Backend names.
const (
	BackendHTTP  = "http"
	BackendVader = "vader"
)

// DefaultEndpoint is the address of a locally running analysis service.
const DefaultEndpoint = "http://localhost:8000"

// CurrentVersion is the config file format version written by Save.
const CurrentVersion = "1"

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

// Default returns a new Config with sensible defaults.
func Default() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		Analyzer: AnalyzerConfig{
			Backend:        BackendHTTP,
			Endpoint:       DefaultEndpoint,
			TimeoutSeconds: 0,
			UserAgent:      "senti",
		},
		UI: UIConfig{
			Theme:        "auto",
			ShowHelp:     false,
			MaxEchoWidth: 60,
		},
		History: HistoryConfig{
			Enabled:    false,
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Tracing: false,
		},
		Batch: BatchConfig{
			RatePerSecond: 5,
			Burst:         1,
		},
	}

	if dir, err := ConfigDir(); err == nil {
		cfg.History.Path = filepath.Join(dir, "history.db")
		cfg.Logging.File = filepath.Join(dir, "senti.log")
	}

	return cfg
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the senti configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".senti"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.senti/config.toml.
// Missing files fall back to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		cfg := Default()
		LoadDotEnv()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit TOML path.
// A missing file is not an error; the defaults are used instead.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	}

	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
// The file is replaced atomically so a watcher never observes a partial write.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# senti configuration file\n")
	buf.WriteString("# Generated by senti - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Analyzer.Backend {
	case BackendHTTP, BackendVader:
	default:
		errs = append(errs, ValidationError{
			Field:   "analyzer.backend",
			Message: fmt.Sprintf("must be %q or %q, got %q", BackendHTTP, BackendVader, c.Analyzer.Backend),
		})
	}

	if c.Analyzer.Backend == BackendHTTP {
		if err := validateEndpoint(c.Analyzer.Endpoint); err != nil {
			errs = append(errs, ValidationError{Field: "analyzer.endpoint", Message: err.Error()})
		}
	}

	if c.Analyzer.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "analyzer.timeout_seconds",
			Message: "must not be negative (0 disables the timeout)",
		})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme),
		})
	}

	if c.UI.MaxEchoWidth < 0 {
		errs = append(errs, ValidationError{Field: "ui.max_echo_width", Message: "must not be negative"})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, ValidationError{Field: "history.max_entries", Message: "must not be negative"})
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, ValidationError{Field: "history.path", Message: "required when history is enabled"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be debug, info, warn or error, got %q", c.Logging.Level),
		})
	}

	if c.Batch.RatePerSecond <= 0 {
		errs = append(errs, ValidationError{Field: "batch.rate_per_second", Message: "must be positive"})
	}
	if c.Batch.Burst < 1 {
		errs = append(errs, ValidationError{Field: "batch.burst", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateEndpoint checks that the endpoint is an absolute http(s) URL.
func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New("must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Analyzer.Backend == "" {
		c.Analyzer.Backend = d.Analyzer.Backend
	}
	if c.Analyzer.Endpoint == "" {
		c.Analyzer.Endpoint = d.Analyzer.Endpoint
	}
	c.Analyzer.Endpoint = strings.TrimRight(c.Analyzer.Endpoint, "/")
	if c.Analyzer.UserAgent == "" {
		c.Analyzer.UserAgent = d.Analyzer.UserAgent
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.MaxEchoWidth == 0 {
		c.UI.MaxEchoWidth = d.UI.MaxEchoWidth
	}
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = d.Logging.File
	}
	if c.Batch.RatePerSecond == 0 {
		c.Batch.RatePerSecond = d.Batch.RatePerSecond
	}
	if c.Batch.Burst == 0 {
		c.Batch.Burst = d.Batch.Burst
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "analyzer.endpoint").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "analyzer.endpoint").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("field '%s' is a section, not a value", key)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the dotted key down the Config struct.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := parseBool(strVal)
			if err != nil {
				return err
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// parseBool accepts the usual spellings plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %q", s)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"analyzer.backend",
		"analyzer.endpoint",
		"analyzer.timeout_seconds",
		"analyzer.user_agent",
		"ui.theme",
		"ui.show_help",
		"ui.max_echo_width",
		"history.enabled",
		"history.path",
		"history.max_entries",
		"logging.level",
		"logging.file",
		"logging.tracing",
		"batch.rate_per_second",
		"batch.burst",
	}
}

// Clone creates a copy of the configuration. Config holds only value types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns an indented JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
