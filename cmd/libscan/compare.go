package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/libscan/internal/config"
	"github.com/nao1215/libscan/internal/database"
	"github.com/nao1215/libscan/internal/model"
	"github.com/spf13/cobra"
)

// Constants for surface change direction.
const (
	surfaceDirectionGrew      = "grew"
	surfaceDirectionShrank    = "shrank"
	surfaceDirectionUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares scan results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [library]",
		Short: "Compare catalogues with historical data",
		Long: `Compare displays differences between the current and previous catalogues.

This command retrieves historical scan data from the database and shows:
- Functions and classes added since the last scan
- Functions and classes removed since the last scan
- Changes in the overall API surface size

The comparison requires at least two scans in the database for the specified
library. Use 'libscan scan' to perform scans and save results.

Examples:
  # Compare latest two scans for a library
  libscan compare example.com/numlib

  # List all scan history for a library
  libscan compare --list example.com/numlib

  # Compare with a specific historical scan by ID
  libscan compare --with-scan-id 5 example.com/numlib

  # Compare scans since a specific date
  libscan compare --since "2026-01-01" example.com/numlib

  # Output comparison in JSON format
  libscan compare --json example.com/numlib

  # List all scanned libraries in the database
  libscan compare --list-libraries`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the specified library")
	cmd.Flags().BoolP("list-libraries", "L", false,
		"List all scanned libraries in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first scan after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-libraries flag first (requires database but no library)
	listLibraries, err := cmd.Flags().GetBool("list-libraries")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-libraries)
	var library string
	if !listLibraries {
		if len(args) == 0 {
			return errors.New("library is required (use --list-libraries to see available libraries)")
		}
		library = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listLibraries {
		return listScannedLibraries(ctx, cmd, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScanHistory(ctx, cmd, db, library)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	withScanID, err := cmd.Flags().GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, cmd, db, library, withScanID, sinceDate, jsonOutput, markdownOutput)
}

// listScannedLibraries lists all libraries that have scan records in the database.
func listScannedLibraries(ctx context.Context, cmd *cobra.Command, db *database.CatalogDB) error {
	out := cmd.OutOrStdout()

	libraries, err := db.ListScannedLibraries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list libraries: %w", err)
	}

	if len(libraries) == 0 {
		fmt.Fprintln(out, "No scanned libraries found in the database.")
		fmt.Fprintln(out, "\nUse 'libscan scan <library>' to catalogue a library.")
		return nil
	}

	fmt.Fprintf(out, "Scanned libraries (%d):\n\n", len(libraries))
	for _, library := range libraries {
		fmt.Fprintf(out, "  • %s\n", library)
	}
	fmt.Fprintln(out, "\nUse 'libscan compare --list <library>' to see scan history for a library.")

	return nil
}

// listScanHistory lists all scan records for a specific library.
func listScanHistory(ctx context.Context, cmd *cobra.Command, db *database.CatalogDB, library string) error {
	out := cmd.OutOrStdout()

	history, err := db.GetScanHistory(ctx, library)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No scan history found for %s\n", library)
		fmt.Fprintln(out, "\nUse 'libscan scan' to catalogue this library.")
		return nil
	}

	fmt.Fprintf(out, "Scan history for %s (%d scans):\n\n", library, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %s\n", "ID", "Date", "Surface")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatSurfaceSummary(meta),
		)
	}

	fmt.Fprintln(out, "\nUse 'libscan compare <library>' to compare the latest two scans.")
	fmt.Fprintln(out, "Use 'libscan compare --with-scan-id <id> <library>' to compare with a specific scan.")

	return nil
}

// formatSurfaceSummary formats scan metadata counts into a short string.
func formatSurfaceSummary(meta database.ScanMetadata) string {
	var parts []string
	if meta.FunctionCount > 0 {
		parts = append(parts, fmt.Sprintf("F:%d", meta.FunctionCount))
	}
	if meta.ClassCount > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", meta.ClassCount))
	}
	if len(parts) == 0 {
		return "Empty surface"
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between catalogues.
func runComparison(ctx context.Context, cmd *cobra.Command, db *database.CatalogDB, library string, withScanID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	catalogues, err := db.GetRecentAnalyses(ctx, library, 0)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(catalogues) == 0 {
		return fmt.Errorf("no scan history found for %s", library)
	}

	if len(catalogues) < 2 && withScanID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(catalogues))
	}

	// Latest catalogue is always the current one
	current := catalogues[0]
	var previous *model.AnalysisResult

	if withScanID > 0 {
		previous, err = db.GetAnalysisByID(ctx, withScanID)
		if err != nil {
			return fmt.Errorf("failed to get scan with ID %d: %w", withScanID, err)
		}
		if previous == nil {
			return fmt.Errorf("scan with ID %d not found", withScanID)
		}
		if previous.Library != library {
			return fmt.Errorf("scan ID %d belongs to %s, not %s", withScanID, previous.Library, library)
		}
	} else if sinceDate != "" {
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Catalogues are sorted newest first, so iterate in reverse to
		// find the oldest scan at or after the date.
		for i := len(catalogues) - 1; i >= 0; i-- {
			c := catalogues[i]
			if c.DateScanned.After(parsedDate) || c.DateScanned.Equal(parsedDate) {
				previous = c
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no scans found since %s", sinceDate)
		}
		if previous == current {
			return fmt.Errorf("only one scan found since %s; at least 2 scans are required for comparison", sinceDate)
		}
	} else {
		// Default: compare with the previous scan
		previous = catalogues[1]
	}

	comparison := compareCatalogues(previous, current)

	if jsonOutput {
		return outputComparisonJSON(cmd, comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(cmd, comparison)
	}
	return outputComparisonText(cmd, comparison)
}

// ComparisonResult holds the result of comparing two catalogues.
type ComparisonResult struct {
	// Library is the scanned library's import path.
	Library string `json:"library"`

	// PreviousScan contains metadata about the previous scan.
	PreviousScan CompareScanInfo `json:"previous_scan"`

	// CurrentScan contains metadata about the current scan.
	CurrentScan CompareScanInfo `json:"current_scan"`

	// AddedFunctions lists function names present only in the current scan.
	AddedFunctions []string `json:"added_functions,omitempty"`

	// RemovedFunctions lists function names present only in the previous scan.
	RemovedFunctions []string `json:"removed_functions,omitempty"`

	// AddedClasses lists class keys present only in the current scan.
	AddedClasses []string `json:"added_classes,omitempty"`

	// RemovedClasses lists class keys present only in the previous scan.
	RemovedClasses []string `json:"removed_classes,omitempty"`

	// UnchangedCount is the number of entries present in both scans.
	UnchangedCount int `json:"unchanged_count"`

	// SurfaceChange describes the overall change in API surface size.
	SurfaceChange SurfaceChange `json:"surface_change"`
}

// CompareScanInfo contains metadata about a scan for comparison display.
type CompareScanInfo struct {
	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// FunctionCount is the number of catalogued functions.
	FunctionCount int `json:"function_count"`

	// ClassCount is the number of catalogued classes.
	ClassCount int `json:"class_count"`
}

// SurfaceChange describes the change in API surface between scans.
type SurfaceChange struct {
	// Direction is "grew", "shrank", or "unchanged".
	Direction string `json:"direction"`

	// FunctionDelta is the change in function count.
	FunctionDelta int `json:"function_delta"`

	// ClassDelta is the change in class count.
	ClassDelta int `json:"class_delta"`
}

// compareCatalogues compares two catalogues and generates a comparison result.
func compareCatalogues(previous, current *model.AnalysisResult) *ComparisonResult {
	result := &ComparisonResult{
		Library: current.Library,
		PreviousScan: CompareScanInfo{
			DateScanned:   previous.DateScanned,
			FunctionCount: len(previous.Functions),
			ClassCount:    len(previous.Classes),
		},
		CurrentScan: CompareScanInfo{
			DateScanned:   current.DateScanned,
			FunctionCount: len(current.Functions),
			ClassCount:    len(current.Classes),
		},
	}

	previousFunctions := make(map[string]bool, len(previous.Functions))
	for _, name := range previous.FunctionNames() {
		previousFunctions[name] = true
	}
	currentFunctions := make(map[string]bool, len(current.Functions))
	for _, name := range current.FunctionNames() {
		currentFunctions[name] = true
	}

	// Iterate slices, not maps, so diff output stays in discovery order.
	for _, name := range current.FunctionNames() {
		if !previousFunctions[name] {
			result.AddedFunctions = append(result.AddedFunctions, name)
		} else {
			result.UnchangedCount++
		}
	}
	for _, name := range previous.FunctionNames() {
		if !currentFunctions[name] {
			result.RemovedFunctions = append(result.RemovedFunctions, name)
		}
	}

	previousClasses := make(map[string]bool, len(previous.Classes))
	for _, key := range previous.ClassKeys() {
		previousClasses[key] = true
	}
	currentClasses := make(map[string]bool, len(current.Classes))
	for _, key := range current.ClassKeys() {
		currentClasses[key] = true
	}

	for _, key := range current.ClassKeys() {
		if !previousClasses[key] {
			result.AddedClasses = append(result.AddedClasses, key)
		} else {
			result.UnchangedCount++
		}
	}
	for _, key := range previous.ClassKeys() {
		if !currentClasses[key] {
			result.RemovedClasses = append(result.RemovedClasses, key)
		}
	}

	result.SurfaceChange = calculateSurfaceChange(result.PreviousScan, result.CurrentScan)

	return result
}

// calculateSurfaceChange calculates the change in API surface between two scans.
func calculateSurfaceChange(previous, current CompareScanInfo) SurfaceChange {
	change := SurfaceChange{
		FunctionDelta: current.FunctionCount - previous.FunctionCount,
		ClassDelta:    current.ClassCount - previous.ClassCount,
	}

	previousTotal := previous.FunctionCount + previous.ClassCount
	currentTotal := current.FunctionCount + current.ClassCount

	if currentTotal > previousTotal {
		change.Direction = surfaceDirectionGrew
	} else if currentTotal < previousTotal {
		change.Direction = surfaceDirectionShrank
	} else {
		change.Direction = surfaceDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(cmd *cobra.Command, result *ComparisonResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "# Catalogue Comparison: %s\n\n", result.Library)

	fmt.Fprintln(out, "## Summary")
	fmt.Fprintf(out, "\n**API Surface:** %s\n\n", formatSurfaceDirection(result.SurfaceChange.Direction))

	fmt.Fprintln(out, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(out, "|--------|----------|---------|--------|")
	fmt.Fprintf(out, "| Date | %s | %s | - |\n",
		result.PreviousScan.DateScanned.Format("2006-01-02 15:04"),
		result.CurrentScan.DateScanned.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "| Functions | %d | %d | %s |\n",
		result.PreviousScan.FunctionCount,
		result.CurrentScan.FunctionCount,
		formatDelta(result.SurfaceChange.FunctionDelta))
	fmt.Fprintf(out, "| Classes | %d | %d | %s |\n",
		result.PreviousScan.ClassCount,
		result.CurrentScan.ClassCount,
		formatDelta(result.SurfaceChange.ClassDelta))

	if len(result.AddedFunctions) > 0 || len(result.AddedClasses) > 0 {
		fmt.Fprintf(out, "\n## Added (%d)\n\n", len(result.AddedFunctions)+len(result.AddedClasses))
		for _, name := range result.AddedFunctions {
			fmt.Fprintf(out, "- **[function]** `%s`\n", name)
		}
		for _, key := range result.AddedClasses {
			fmt.Fprintf(out, "- **[class]** `%s`\n", key)
		}
	}

	if len(result.RemovedFunctions) > 0 || len(result.RemovedClasses) > 0 {
		fmt.Fprintf(out, "\n## Removed (%d)\n\n", len(result.RemovedFunctions)+len(result.RemovedClasses))
		for _, name := range result.RemovedFunctions {
			fmt.Fprintf(out, "- ~~**[function]** `%s`~~\n", name)
		}
		for _, key := range result.RemovedClasses {
			fmt.Fprintf(out, "- ~~**[class]** `%s`~~\n", key)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\n---\n\n*%d entries unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Catalogue Comparison: %s\n", result.Library)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nAPI Surface: %s\n", formatSurfaceDirection(result.SurfaceChange.Direction))

	fmt.Fprintf(out, "\nPrevious scan: %s\n", result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current scan:  %s\n", result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nSurface Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Kind", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Functions",
		result.PreviousScan.FunctionCount, result.CurrentScan.FunctionCount,
		formatDelta(result.SurfaceChange.FunctionDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Classes",
		result.PreviousScan.ClassCount, result.CurrentScan.ClassCount,
		formatDelta(result.SurfaceChange.ClassDelta))

	if len(result.AddedFunctions) > 0 || len(result.AddedClasses) > 0 {
		fmt.Fprintf(out, "\nAdded (%d):\n", len(result.AddedFunctions)+len(result.AddedClasses))
		for _, name := range result.AddedFunctions {
			fmt.Fprintf(out, "  [+] function %s\n", name)
		}
		for _, key := range result.AddedClasses {
			fmt.Fprintf(out, "  [+] class    %s\n", key)
		}
	}

	if len(result.RemovedFunctions) > 0 || len(result.RemovedClasses) > 0 {
		fmt.Fprintf(out, "\nRemoved (%d):\n", len(result.RemovedFunctions)+len(result.RemovedClasses))
		for _, name := range result.RemovedFunctions {
			fmt.Fprintf(out, "  [-] function %s\n", name)
		}
		for _, key := range result.RemovedClasses {
			fmt.Fprintf(out, "  [-] class    %s\n", key)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d entries\n", result.UnchangedCount)
	}

	return nil
}

// formatSurfaceDirection formats the surface change direction for display.
func formatSurfaceDirection(direction string) string {
	switch direction {
	case surfaceDirectionGrew:
		return "GREW (entries added)"
	case surfaceDirectionShrank:
		return "SHRANK (entries removed)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
