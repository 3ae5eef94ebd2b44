package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/libscan/internal/analyzer"
	"github.com/nao1215/libscan/internal/config"
	"github.com/nao1215/libscan/internal/database"
	"github.com/nao1215/libscan/internal/log"
	"github.com/nao1215/libscan/internal/loader"
	"github.com/nao1215/libscan/internal/model"
	"github.com/nao1215/libscan/internal/pipeline"
	"github.com/nao1215/libscan/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [library]",
		Short: "Catalogue the public API surface of a Go library",
		Long: `Scan loads a Go library and catalogues its public API surface.

It records every exported function and type of the root package and all
reachable sub-packages, together with argument lists and documentation.
Sub-packages that fail to load are skipped; a scan only fails when the
root package itself cannot be loaded.

Examples:
  # Scan a library by import path
  libscan scan golang.org/x/text

  # Scan a local directory
  libscan scan ./mylib

  # Scan multiple libraries concurrently
  libscan scan lib1 lib2 lib3

  # Restrict the scan to specific symbols (skips sub-package traversal)
  libscan scan --only Mean,Median example.com/numlib

  # Exclude sub-packages by path suffix
  libscan scan --skip-suffix /internal/gen example.com/numlib

  # Output a JSON catalogue
  libscan scan --json example.com/numlib

  # Use a custom configuration file
  libscan scan -c myconfig.yaml example.com/numlib

Configuration file (.libscan) example:
  libraries:
    example.com/numlib:
      only:
        - Mean
        - Median
    golang.org/x/text:
      skipSuffixes:
        - /internal/export`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().StringSliceP("only", "O", nil,
		"Restrict the scan to the listed symbol names (skips sub-package traversal)")
	cmd.Flags().StringSliceP("skip-suffix", "s", nil,
		"Sub-package path suffixes to exclude from traversal")
	cmd.Flags().StringP("dir", "d", "",
		"Working directory for resolving import-path targets")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .libscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON catalogue (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown catalogue (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write catalogue to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Only, err = cmd.Flags().GetStringSlice("only")
	if err != nil {
		return nil, err
	}

	extraSuffixes, err := cmd.Flags().GetStringSlice("skip-suffix")
	if err != nil {
		return nil, err
	}
	cfg.SkipSuffixes = append(cfg.SkipSuffixes, extraSuffixes...)

	cfg.Dir, err = cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load library-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.LibraryConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.LibraryConfigs = &config.File{
			Libraries: make(map[string]config.LibraryConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (library targets)
	cfg.Targets = args

	return cfg, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.CatalogDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Normalize all targets into loader patterns
	for i, target := range cfg.Targets {
		pattern, _, err := loader.NormalizeTarget(target)
		if err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
		cfg.Targets[i] = pattern
	}

	// Use batch processor for parallel scanning if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cmd, cfg, db, logger)
	}

	return runSequentialScan(ctx, cmd, cfg, db, logger)
}

// analyzeOptions assembles analyzer options for a target, merging CLI
// flags with any library-specific configuration.
func analyzeOptions(cfg *config.Config, target string, logger *slog.Logger) []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithDir(cfg.Dir),
		analyzer.WithOnly(cfg.OnlyFor(target)),
		analyzer.WithSkipSuffixes(cfg.SkipSuffixesFor(target)),
		analyzer.WithLogger(logger),
	}
}

// runSequentialScan scans targets one at a time.
func runSequentialScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.CatalogDB, logger *slog.Logger) error {
	out := cmd.OutOrStdout()

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintf(out, "Scanning %s...\n", target)
		startTime := time.Now()

		result, err := analyzer.Analyze(ctx, target, analyzeOptions(cfg, target, logger)...)
		if err != nil {
			logger.Error("scan failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
			var rootErr *analyzer.RootLoadError
			if errors.As(err, &rootErr) {
				continue
			}
			return err
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(out, "Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, result); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveAnalysis(ctx, db, result, logger); err != nil {
			logger.Error("failed to save catalogue", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchScan scans multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.CatalogDB, logger *slog.Logger) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(ctx context.Context, target string) (*model.AnalysisResult, error) {
			return analyzer.Analyze(ctx, target, analyzeOptions(cfg, target, logger)...)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(outcome *pipeline.BatchResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Scan failed: %s: %v\n",
				index+1, len(cfg.Targets), outcome.Target, outcome.Err)
			return
		}

		fmt.Fprintf(out, "[%d/%d] Scan completed: %s\n", index+1, len(cfg.Targets), outcome.Result.Library)

		if err := outputReport(cfg, outcome.Result); err != nil {
			logger.Error("report failed", "target", outcome.Target, "error", err)
		}

		if err := saveAnalysis(ctx, db, outcome.Result, logger); err != nil {
			logger.Error("failed to save catalogue", "target", outcome.Target, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Fprintf(out, "\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport outputs the catalogue in the requested format.
func outputReport(cfg *config.Config, result *model.AnalysisResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full catalogue with all records)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
		)
		_, err := writer.Write(result)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(result)
		return err
	}

	// Human-readable catalogue (default)
	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(result)
	return err
}

// saveAnalysis saves the catalogue to the database if enabled.
// If db is nil, this function is a no-op.
func saveAnalysis(ctx context.Context, db *database.CatalogDB, result *model.AnalysisResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveAnalysis(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save catalogue: %w", err)
	}

	logger.Info("catalogue saved to database", "library", result.Library, "scanID", id)
	return nil
}
