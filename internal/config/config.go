package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent scans balances throughput with the
	// cost of running several package loaders at once. Each load spawns
	// toolchain subprocesses, so high values mostly add contention.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "libscan"
)

// DefaultSkipSuffixes lists sub-package path suffixes that are always
// excluded from traversal. These are directories that by convention hold
// fixture or generated code whose load behavior is unpredictable: testdata
// trees routinely contain intentionally broken source.
var DefaultSkipSuffixes = []string{
	"/testdata",
}

// Config holds all configuration options for libscan.
// It is populated from CLI flags and the optional config file, validated
// once, then passed through the application by value injection rather than
// global state.
type Config struct {
	// Targets is the list of libraries to scan. Each target is a package
	// pattern understood by the Go package loader: an import path or a
	// filesystem path such as "./mylib".
	Targets []string

	// Dir is the working directory for package loading. Import-path
	// targets are resolved against the module found here. Empty means
	// the current directory.
	Dir string

	// Only restricts the scan to the listed symbol names. When non-empty,
	// sub-package traversal is skipped entirely: allow-list mode is a
	// targeted lookup, not a full scan.
	Only []string

	// SkipSuffixes lists sub-package path suffixes to exclude from
	// traversal, in addition to DefaultSkipSuffixes.
	SkipSuffixes []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scans when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .libscan in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// LibraryConfigs holds per-library configurations loaded from the
	// config file.
	LibraryConfigs *File

	// JSONReport enables JSON catalogue output instead of the
	// human-readable summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown catalogue output instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite catalogue
	// database. When set, scan results are saved for historical
	// comparison. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize:    DefaultBatchSize,
		SkipSuffixes: append([]string(nil), DefaultSkipSuffixes...),
	}
}

// XDGDataDir returns the XDG data directory for libscan.
// On Linux: ~/.local/share/libscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for libscan.
// On Linux: ~/.config/libscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It is called once after
// CLI parsing, before any scanning begins, and returns the first problem
// found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// SkipSuffixesFor returns the effective skip-suffix list for a library,
// merging global suffixes with any per-library configuration.
func (c *Config) SkipSuffixesFor(library string) []string {
	suffixes := append([]string(nil), c.SkipSuffixes...)
	if c.LibraryConfigs != nil {
		lc := c.LibraryConfigs.GetLibraryConfig(library)
		suffixes = append(suffixes, lc.SkipSuffixes...)
	}
	return suffixes
}

// OnlyFor returns the effective allow-list for a library. CLI flags take
// precedence over the config file.
func (c *Config) OnlyFor(library string) []string {
	if len(c.Only) > 0 {
		return c.Only
	}
	if c.LibraryConfigs != nil {
		return c.LibraryConfigs.GetLibraryConfig(library).Only
	}
	return nil
}
