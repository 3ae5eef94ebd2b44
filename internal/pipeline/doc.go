// Package pipeline orchestrates the steps of a library scan.
//
// A single scan runs a Pipeline of Steps over one model.AnalysisResult:
// the root package scan followed by the sub-package tree walk. Execution
// is strictly sequential and single-threaded; the result collections are
// owned by one pipeline for the duration of one Execute call.
//
// BatchProcessor adds bounded concurrency across independent scans when
// multiple libraries are catalogued in one invocation. Concurrency never
// crosses a single scan's boundary.
package pipeline
