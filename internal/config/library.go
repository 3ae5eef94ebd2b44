package config

// LibraryConfig holds library-specific configuration for a single scan
// target. This allows customizing traversal behavior per library without
// repeating CLI flags.
type LibraryConfig struct {
	// Only restricts the scan to the listed symbol names.
	// When non-empty, sub-package traversal is skipped for this library.
	Only []string `yaml:"only,omitempty"`

	// SkipSuffixes are sub-package path suffixes to exclude from
	// traversal, in addition to the global defaults.
	SkipSuffixes []string `yaml:"skipSuffixes,omitempty"`
}

// File represents the structure of the .libscan configuration file.
type File struct {
	// Libraries maps library import paths to their configurations.
	Libraries map[string]LibraryConfig `yaml:"libraries,omitempty"`

	// Defaults contains default configuration applied to all libraries
	// unless overridden in the library-specific configuration.
	Defaults LibraryConfig `yaml:"defaults,omitempty"`
}

// GetLibraryConfig returns the configuration for a specific library,
// merging the library-specific configuration with defaults.
func (cf *File) GetLibraryConfig(library string) LibraryConfig {
	result := cf.Defaults

	if lc, ok := cf.Libraries[library]; ok {
		if len(lc.Only) > 0 {
			result.Only = lc.Only
		}
		if len(lc.SkipSuffixes) > 0 {
			result.SkipSuffixes = append(append([]string(nil), result.SkipSuffixes...), lc.SkipSuffixes...)
		}
	}

	return result
}
