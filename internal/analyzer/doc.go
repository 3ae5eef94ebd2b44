// Package analyzer is the traversal driver for library scans.
//
// Analyze loads a library's root package, visits it with the metadata
// extractor, then walks and visits every reachable sub-package, merging
// all discoveries into one de-duplicated catalogue. The only error a
// caller can observe is a RootLoadError (or cancellation); every fault
// below the root level costs at most one sub-package or one symbol.
package analyzer
