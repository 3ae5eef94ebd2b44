package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ErrEmptyTarget is returned when the scan target is an empty string.
var ErrEmptyTarget = errors.New("empty scan target")

// NormalizeTarget converts a CLI scan target into a loader pattern and a
// display name. Import paths pass through unchanged. Filesystem directories
// are rewritten into the "./dir" form the package loader requires, and the
// display name is resolved from the directory's go.mod when one exists.
func NormalizeTarget(target string) (pattern, display string, err error) {
	if target == "" {
		return "", "", ErrEmptyTarget
	}

	info, statErr := os.Stat(target)
	if statErr != nil || !info.IsDir() {
		// Not a local directory; treat as an import path pattern.
		return target, target, nil
	}

	pattern = filepath.ToSlash(filepath.Clean(target))
	if !strings.HasPrefix(pattern, "./") && !strings.HasPrefix(pattern, "/") && pattern != "." {
		pattern = "./" + pattern
	}

	display = pattern
	if path, err := ModulePath(target); err == nil && path != "" {
		display = path
	}

	return pattern, display, nil
}

// ModulePath reads the module path from the go.mod file in dir.
// It returns an error when dir has no readable go.mod.
func ModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod")) //nolint:gosec // Scan target path comes from the CLI argument
	if err != nil {
		return "", err
	}

	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return "", err
	}
	if f.Module == nil {
		return "", errors.New("go.mod has no module directive")
	}

	return f.Module.Mod.Path, nil
}
