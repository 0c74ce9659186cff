package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSource is returned when no manifest URL or path is given.
	ErrNoSource = errors.New("no source specified: provide one or more manifest URLs or files")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative (0 disables it)")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --markdown and --summary are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --markdown and --summary cannot be used together")

	// ErrConflictingOutputs is returned when both --output and --output-dir are given.
	ErrConflictingOutputs = errors.New("conflicting outputs: --output and --output-dir cannot be used together")

	// ErrOutputFileMultipleSources is returned when --output is used with several sources.
	ErrOutputFileMultipleSources = errors.New("--output accepts a single source; use --output-dir for several")
)
