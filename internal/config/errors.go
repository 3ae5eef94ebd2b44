package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinels allow callers to use errors.Is() while keeping
// human-readable messages.
var (
	// ErrNoTarget is returned when no library target is specified.
	ErrNoTarget = errors.New("no target specified: provide a package import path or directory")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
