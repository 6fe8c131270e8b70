package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
// They are returned wrapped in a *ConfigError by Config.Validate and
// Config.Prepare, so callers can use both errors.As and errors.Is.
var (
	// ErrNoBacklinks is returned when the backlink list is empty after cleaning.
	ErrNoBacklinks = errors.New("no backlinks specified: pass backlink URLs or use --list")

	// ErrNoTargets is returned when the target list is empty after cleaning.
	ErrNoTargets = errors.New("no targets specified: use --target or set targets in the config file")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when a timeout is not positive or the
	// settle delay is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRate is returned when the rate limit is negative.
	ErrInvalidRate = errors.New("invalid rate: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrBrowserUnavailable is returned when the rendered backend is selected
	// but no Chrome executable can be found.
	ErrBrowserUnavailable = errors.New("rendered backend unavailable: no Chrome or Chromium executable found")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to select the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ConfigError reports an invalid configuration detected before any backlink
// is checked.
type ConfigError struct {
	// Field names the offending option as it appears in the config file.
	Field string

	// Err is one of the sentinel errors above, possibly wrapped.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration (%s): %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}
