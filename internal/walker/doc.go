// Package walker enumerates the sub-packages of a library's package tree.
//
// The walk is filesystem-based and deterministic: directories are visited
// in lexical order, so repeated scans of an unchanged library yield the
// same sub-package sequence. Per-entry failures (unreadable directories,
// permission errors) are logged in verbose mode and skipped without
// stopping enumeration of siblings.
package walker
