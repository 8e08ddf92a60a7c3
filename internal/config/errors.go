package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and let callers use
// errors.Is() while still reading well on the terminal.
var (
	// ErrNoTarget is returned when the target list is empty.
	ErrNoTarget = errors.New("no target specified: list files as arguments or under 'targets' in the config file")

	// ErrEmptyReportDir is returned when no report directory is configured.
	ErrEmptyReportDir = errors.New("invalid report directory: must not be empty")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format: must be one of markdown, text, json")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrEmptyHistoryDir is returned when history is enabled without a directory.
	ErrEmptyHistoryDir = errors.New("invalid history directory: must not be empty when history is enabled")
)
