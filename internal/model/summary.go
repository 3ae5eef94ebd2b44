package model

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record kinds used for grouping catalogue entries in summaries and reports.
const (
	KindFunction = "function"
	KindMethod   = "method"
	KindClass    = "class"
)

// titleCaser converts record kinds into report section labels.
var titleCaser = cases.Title(language.English)

// KindLabel returns the human-readable section label for a record kind,
// e.g. "function" becomes "Function".
func KindLabel(kind string) string {
	return titleCaser.String(kind)
}

// Summary is a condensed view of an AnalysisResult used by the
// human-readable and markdown report writers. It carries counts and names
// only, not the full records, so it stays small even for large libraries.
type Summary struct {
	// Library is the import path of the scanned library's root package.
	Library string `json:"library"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// FunctionCount is the number of catalogued functions.
	FunctionCount int `json:"function_count"`

	// ClassCount is the number of catalogued classes.
	ClassCount int `json:"class_count"`

	// MethodCount is the total number of methods across all classes.
	MethodCount int `json:"method_count"`

	// DegradedCount is the number of functions whose signature could not
	// be extracted by any cascade step and were kept with empty argument
	// data.
	DegradedCount int `json:"degraded_count"`

	// PackagesVisited counts packages that were loaded and inspected.
	PackagesVisited int `json:"packages_visited"`

	// PackagesSkipped counts sub-packages that were skipped.
	PackagesSkipped int `json:"packages_skipped"`

	// FunctionNames lists catalogued function names in discovery order.
	FunctionNames []string `json:"function_names,omitempty"`

	// ClassKeys lists catalogued class keys in discovery order.
	ClassKeys []string `json:"class_keys,omitempty"`
}

// NewSummary builds a Summary from a full analysis result.
func NewSummary(result *AnalysisResult) *Summary {
	s := &Summary{
		Library:         result.Library,
		DateScanned:     result.DateScanned,
		FunctionCount:   len(result.Functions),
		ClassCount:      len(result.Classes),
		PackagesVisited: result.PackagesVisited,
		PackagesSkipped: result.PackagesSkipped,
		FunctionNames:   result.FunctionNames(),
		ClassKeys:       result.ClassKeys(),
	}

	for _, f := range result.Functions {
		if len(f.Args) == 0 && f.OptionalCount == 0 {
			s.DegradedCount++
		}
	}
	for _, c := range result.Classes {
		s.MethodCount += len(c.Methods)
	}

	return s
}
