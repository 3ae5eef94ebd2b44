package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/tools/go/packages"

	"github.com/nao1215/libscan/internal/inspect"
	"github.com/nao1215/libscan/internal/loader"
	"github.com/nao1215/libscan/internal/model"
	"github.com/nao1215/libscan/internal/pipeline"
)

// RootLoadError reports that the scanned library's root package could not
// be loaded at all. It is the only failure a caller ever observes: every
// fault below the root level is absorbed during traversal.
type RootLoadError struct {
	// Library is the scan target whose root failed to load.
	Library string
}

// Error implements the error interface.
func (e *RootLoadError) Error() string {
	return fmt.Sprintf("failed to load library %s", e.Library)
}

// settings holds the resolved analysis options.
type settings struct {
	dir          string
	only         []string
	skipSuffixes []string
	logger       *slog.Logger
}

// Option configures an analysis.
type Option func(*settings)

// WithDir sets the working directory for package resolution.
func WithDir(dir string) Option {
	return func(s *settings) {
		s.dir = dir
	}
}

// WithOnly restricts the scan to the listed symbol names. When non-empty,
// sub-package traversal is skipped entirely.
func WithOnly(names []string) Option {
	return func(s *settings) {
		s.only = names
	}
}

// WithSkipSuffixes sets sub-package path suffixes to exclude from
// traversal.
func WithSkipSuffixes(suffixes []string) Option {
	return func(s *settings) {
		s.skipSuffixes = suffixes
	}
}

// WithLogger sets a custom logger for scan diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Analyze catalogues the public surface of the library matching target,
// which is a package pattern: an import path or a filesystem path such as
// "./mylib".
//
// The root package is loaded first; if that fails, Analyze returns a
// RootLoadError and nothing else happens. Otherwise the root is visited,
// and unless an allow-list restricts the scan, every reachable sub-package
// is enumerated, loaded, and visited in deterministic order. Sub-package
// faults of any kind are absorbed, so for a loadable root Analyze always
// returns a catalogue (cancellation excepted).
func Analyze(ctx context.Context, target string, opts ...Option) (*model.AnalysisResult, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	ldr := loader.New(
		loader.WithDir(s.dir),
		loader.WithLogger(s.logger),
	)

	rootPkg, ok := ldr.Load(ctx, target)
	if !ok {
		return nil, &RootLoadError{Library: target}
	}

	result := model.NewAnalysisResult(rootPkg.PkgPath)
	extractor := inspect.NewExtractor(rootPkg.PkgPath,
		inspect.WithAllowList(s.only),
		inspect.WithExtractorLogger(s.logger),
	)

	p := pipeline.New(
		pipeline.WithLogger(s.logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddStep(pipeline.NewRootScanStep(rootPkg, extractor))

	// Allow-list mode is a targeted lookup: no tree walk.
	if len(s.only) == 0 {
		if rootDir := packageDir(rootPkg); rootDir != "" {
			p.AddStep(pipeline.NewTreeWalkStep(rootDir, rootPkg.PkgPath, ldr, extractor,
				pipeline.WithSkipSuffixes(s.skipSuffixes),
				pipeline.WithTreeWalkLogger(s.logger),
			))
		}
	}

	if err := p.Execute(ctx, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(result.DateScanned)
	return result, nil
}

// packageDir returns the directory holding the package's source files, or
// the empty string when the package has none on disk.
func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}
	return filepath.Dir(pkg.GoFiles[0])
}
