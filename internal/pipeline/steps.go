package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/tools/go/packages"

	"github.com/nao1215/libscan/internal/inspect"
	"github.com/nao1215/libscan/internal/loader"
	"github.com/nao1215/libscan/internal/model"
	"github.com/nao1215/libscan/internal/walker"
)

// RootScanStep extracts metadata from the library's root package, which
// has already been loaded by the driver (a root that fails to load ends
// the scan before any pipeline runs).
type RootScanStep struct {
	// pkg is the loaded root package.
	pkg *packages.Package

	// extractor derives records from the package.
	extractor *inspect.Extractor
}

// NewRootScanStep creates a root scan step for the given loaded package.
func NewRootScanStep(pkg *packages.Package, extractor *inspect.Extractor) *RootScanStep {
	return &RootScanStep{pkg: pkg, extractor: extractor}
}

// Name returns the step name.
func (s *RootScanStep) Name() string {
	return "root_scan"
}

// Do visits the root package with the metadata extractor.
func (s *RootScanStep) Do(_ context.Context, result *model.AnalysisResult) error {
	s.extractor.Visit(s.pkg, result)
	return nil
}

// TreeWalkStep enumerates all sub-packages beneath the root directory and
// visits every one that can be loaded. Sub-packages matching a skip suffix
// are excluded before any load is attempted; absent loads are counted and
// skipped silently (the loader already logged the reason).
type TreeWalkStep struct {
	// rootDir is the root package's directory on disk.
	rootDir string

	// rootPath is the root package's import path.
	rootPath string

	// skipSuffixes are sub-package path suffixes to exclude.
	skipSuffixes []string

	// ldr loads candidate sub-packages.
	ldr *loader.Loader

	// extractor derives records from loaded sub-packages.
	extractor *inspect.Extractor

	// wlk enumerates the package tree.
	wlk *walker.Walker

	// logger receives skip notices.
	logger *slog.Logger
}

// TreeWalkStepOption configures a TreeWalkStep.
type TreeWalkStepOption func(*TreeWalkStep)

// WithSkipSuffixes sets the sub-package path suffixes to exclude.
func WithSkipSuffixes(suffixes []string) TreeWalkStepOption {
	return func(s *TreeWalkStep) {
		s.skipSuffixes = suffixes
	}
}

// WithTreeWalkLogger sets a custom logger for the tree walk step.
func WithTreeWalkLogger(logger *slog.Logger) TreeWalkStepOption {
	return func(s *TreeWalkStep) {
		s.logger = logger
	}
}

// NewTreeWalkStep creates a tree walk step rooted at the given directory
// and import path.
func NewTreeWalkStep(rootDir, rootPath string, ldr *loader.Loader, extractor *inspect.Extractor, opts ...TreeWalkStepOption) *TreeWalkStep {
	s := &TreeWalkStep{
		rootDir:   rootDir,
		rootPath:  rootPath,
		ldr:       ldr,
		extractor: extractor,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.wlk = walker.New(walker.WithLogger(s.logger))

	return s
}

// Name returns the step name.
func (s *TreeWalkStep) Name() string {
	return "tree_walk"
}

// Do walks the package tree, loading and visiting each sub-package in
// deterministic order. Individual failures cost one sub-package each; only
// cancellation ends the step early.
func (s *TreeWalkStep) Do(ctx context.Context, result *model.AnalysisResult) error {
	for _, sub := range s.wlk.Walk(s.rootDir, s.rootPath) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walker.HasSkipSuffix(sub, s.skipSuffixes) {
			s.logger.Debug("sub-package matches skip suffix, skipping",
				"package", sub,
			)
			result.PackagesSkipped++
			continue
		}

		pkg, ok := s.ldr.Load(ctx, sub)
		if !ok {
			result.PackagesSkipped++
			continue
		}

		s.extractor.Visit(pkg, result)
	}

	return nil
}
