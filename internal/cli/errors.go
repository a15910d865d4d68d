// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/senti-tui/internal/analyzer"
	"github.com/jeranaias/senti-tui/internal/config"
	"github.com/jeranaias/senti-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitValidationError indicates rejected input, such as blank text
	ExitValidationError = 3
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 4
	// ExitNetworkError indicates the analysis backend could not be reached
	// or answered badly
	ExitNetworkError = 5
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError represents a malformed command line.
type UsageError struct {
	Message string
	Usage   string // Example invocation (optional)
}

func (e *UsageError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("%s\nUsage: %s", e.Message, e.Usage)
	}
	return e.Message
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents a config file that could not be loaded or saved.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AnalysisError carries a failed analysis out of a command. Message is what
// the widget showed; Cause is the typed error from the backend.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ReportedError wraps an error whose output the command already wrote, such
// as a failed JSON response. It keeps the exit code and suppresses display.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewUsageError creates a usage error.
func NewUsageError(message, usage string) error {
	return &UsageError{Message: message, Usage: usage}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Example: example,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// ErrMissingArgument creates a usage error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return NewUsageError(fmt.Sprintf("missing required argument: %s", argName), usage)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode determines the exit code for an error by walking its chain.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, analyzer.ErrEmptyText) {
		return ExitValidationError
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) || errors.Is(err, storage.ErrEntryNotFound) {
		return ExitNotFoundError
	}

	var configErr *ConfigError
	var validateErrs config.ValidateErrors
	if errors.As(err, &configErr) || errors.As(err, &validateErrs) {
		return ExitConfigError
	}

	if analyzer.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeoutError
	}

	var clientErr *analyzer.ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case analyzer.ErrTypeNotRunning, analyzer.ErrTypeBadStatus, analyzer.ErrTypeInvalidResponse:
			return ExitNetworkError
		}
	}

	return ExitGeneralError
}

// errorType names an error for JSON output.
func errorType(err error) string {
	switch GetExitCode(err) {
	case ExitUsageError:
		return "usage_error"
	case ExitValidationError:
		return "validation_error"
	case ExitNotFoundError:
		return "not_found_error"
	case ExitNetworkError:
		return "network_error"
	case ExitConfigError:
		return "config_error"
	case ExitTimeoutError:
		return "timeout_error"
	default:
		return "generic_error"
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes an error in a consistent format. In JSON mode it
// writes a failed JSONResponse to stdout, otherwise a styled line to stderr.
func DisplayError(err error, jsonMode bool) {
	var reported *ReportedError
	if err == nil || errors.As(err, &reported) {
		return
	}

	if jsonMode {
		DisplayErrorJSON(err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// DisplayErrorJSON outputs an error as JSON on stdout.
func DisplayErrorJSON(err error) {
	output := map[string]interface{}{
		"success":    false,
		"error":      err.Error(),
		"error_type": errorType(err),
		"exit_code":  GetExitCode(err),
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		output["message"] = analysisErr.Message
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

// HandleErrorAndExit displays an error and exits with its exit code.
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}

	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}
