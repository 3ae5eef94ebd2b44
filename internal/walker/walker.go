package walker

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Walker enumerates the sub-packages beneath a library's root directory.
//
// Enumeration is lazy about failures: an error encountered while merely
// listing a directory's existence is logged and skipped, and enumeration of
// its siblings continues. Whether a discovered sub-package actually loads
// is the loader's problem, not the walker's.
type Walker struct {
	// logger receives debug notices for enumeration faults.
	logger *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets a custom logger for enumeration diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker with the given options.
func New(opts ...Option) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Walk returns the import paths of all sub-packages beneath rootDir, in
// deterministic lexical order. The root package itself is excluded. A
// directory counts as a sub-package when it holds at least one buildable
// Go file. Directories that the Go toolchain always ignores (hidden,
// underscore-prefixed, vendor) are pruned.
func (w *Walker) Walk(rootDir, rootPath string) []string {
	var subpackages []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable entry costs us that entry only.
			w.logger.Debug("enumeration fault, skipping entry",
				"path", path,
				"reason", err,
			)
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != rootDir && ignoredDir(name) {
			return filepath.SkipDir
		}

		if path == rootDir {
			return nil
		}

		hasGo, walkErr := hasGoFiles(path)
		if walkErr != nil {
			w.logger.Debug("enumeration fault, skipping entry",
				"path", path,
				"reason", walkErr,
			)
			return nil
		}
		if !hasGo {
			return nil
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			w.logger.Debug("enumeration fault, skipping entry",
				"path", path,
				"reason", relErr,
			)
			return nil
		}

		subpackages = append(subpackages, rootPath+"/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		// Unreachable with the callback above, which never returns an
		// error; logged so a future change cannot fail silently.
		w.logger.Debug("tree walk ended early", "reason", err)
	}

	return subpackages
}

// ignoredDir reports whether the toolchain would never treat the directory
// as a package: hidden and underscore-prefixed names, and vendor trees.
func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasPrefix(name, "_") ||
		name == "vendor"
}

// hasGoFiles reports whether the directory directly contains at least one
// non-test Go source file.
func hasGoFiles(dir string) (bool, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if !strings.HasSuffix(entry, "_test.go") {
			return true, nil
		}
	}
	return false, nil
}

// HasSkipSuffix reports whether the sub-package path ends with any of the
// configured skip suffixes. Matching sub-packages are excluded before any
// load is attempted, regardless of their contents.
func HasSkipSuffix(pkgPath string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(pkgPath, suffix) {
			return true
		}
	}
	return false
}
