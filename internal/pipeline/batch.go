package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/libscan/internal/model"
)

// AnalyzeFunc runs one complete library scan for a target and returns its
// catalogue, or an error when the target's root package cannot be loaded.
type AnalyzeFunc func(ctx context.Context, target string) (*model.AnalysisResult, error)

// BatchResult is the outcome of scanning one target in a batch.
// Exactly one of Result and Err is set.
type BatchResult struct {
	// Target is the scan target as given.
	Target string

	// Result is the catalogue for a successful scan.
	Result *model.AnalysisResult

	// Err records a root-level failure for this target.
	Err error
}

// BatchProcessor handles concurrent scanning of multiple libraries.
// It uses errgroup to manage goroutines and respect concurrency limits.
// A root-level failure on one target never cancels the others.
type BatchProcessor struct {
	// analyze runs a single scan.
	analyze AnalyzeFunc

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed scan outcomes, ordered as the targets.
	results []*BatchResult
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor around the given scan
// function.
func NewBatchProcessor(analyze AnalyzeFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyze:     analyze,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans multiple targets concurrently, respecting the
// configured concurrency limit and context cancellation.
//
// All outcomes are returned in target order, including per-target root
// failures. The error return indicates cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*BatchResult, error) {
	bp.logger.Info("starting batch scan",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	bp.results = make([]*BatchResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("scanning target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			result, err := bp.analyze(ctx, target)

			bp.mu.Lock()
			bp.results[i] = &BatchResult{Target: target, Result: result, Err: err}
			bp.mu.Unlock()

			if err != nil {
				// A root failure is this target's outcome, not a
				// reason to stop the rest of the batch.
				bp.logger.Warn("scan failed",
					"target", target,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch scan complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback scans multiple targets and calls the callback
// for each completed scan. The callback receives the outcome and the index
// of the target in the original slice; it is called from the goroutine
// that completed the scan, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(outcome *BatchResult, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := bp.analyze(ctx, target)
			callback(&BatchResult{Target: target, Result: result, Err: err}, i)
			return nil
		})
	}

	return g.Wait()
}
