package loader

import (
	"context"
	"log/slog"

	"golang.org/x/tools/go/packages"
)

// loadMode is the package information required for metadata extraction:
// syntax trees for doc comments and parameter names, type information for
// rendering textual signatures, and module data for locating the package
// tree on disk.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// loadPackages runs the underlying package loader. Tests swap it out to
// simulate toolchain failure modes that real input cannot trigger reliably.
var loadPackages = packages.Load

// Loader loads packages while containing every failure mode a candidate
// package can trigger. Sub-packages are enumerated dynamically and cannot be
// vetted in advance: they may fail to build, carry intentionally broken
// fixture code, or trip a panic inside the toolchain machinery. None of
// that may terminate the scanning host, so Load converts all of it into an
// absent result.
type Loader struct {
	// dir is the working directory for package resolution.
	dir string

	// env is the environment for the underlying build system invocations.
	// Nil means inherit the process environment.
	env []string

	// logger receives one-line skip notices at debug level.
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDir sets the working directory for package resolution.
func WithDir(dir string) Option {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithEnv sets the environment for build system invocations.
func WithEnv(env []string) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithLogger sets a custom logger for skip notices.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load loads the package matching the given pattern (an import path or a
// filesystem path such as "./lib"). On success it returns the package and
// true. Every failure, including a panic raised during loading, results in
// (nil, false) and a debug-level notice; Load never propagates an error or
// a panic to the caller.
func (l *Loader) Load(ctx context.Context, pattern string) (pkg *packages.Package, ok bool) {
	// The go/packages machinery and the type checker behind it can panic
	// on pathological input. A hostile or broken candidate package must
	// only cost us that one package, never the whole scan.
	defer func() {
		if r := recover(); r != nil {
			l.logger.Debug("package loader panicked, skipping",
				"pattern", pattern,
				"panic", r,
			)
			pkg = nil
			ok = false
		}
	}()

	cfg := &packages.Config{
		Mode:    loadMode,
		Context: ctx,
		Dir:     l.dir,
		Env:     l.env,
		Tests:   false,
	}

	pkgs, err := loadPackages(cfg, pattern)
	if err != nil {
		l.logger.Debug("could not load package, skipping",
			"pattern", pattern,
			"reason", err,
		)
		return nil, false
	}

	if len(pkgs) == 0 {
		l.logger.Debug("pattern matched no packages, skipping", "pattern", pattern)
		return nil, false
	}

	pkg = pkgs[0]
	if len(pkg.Errors) > 0 {
		l.logger.Debug("package has load errors, skipping",
			"pattern", pattern,
			"reason", pkg.Errors[0].Msg,
		)
		return nil, false
	}

	if len(pkg.GoFiles) == 0 {
		l.logger.Debug("package has no Go files, skipping", "pattern", pattern)
		return nil, false
	}

	return pkg, true
}
