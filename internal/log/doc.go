// Package log provides scan diagnostic logging built on the standard slog
// package.
//
// The one addition over plain slog is DedupHandler, a handler wrapper that
// collapses consecutive identical records into a single line plus a repeat
// count. Library scans visit hundreds of sub-packages and a single broken
// dependency can make most of them fail with the same message; without
// deduplication, verbose output becomes unreadable.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("skipping package", "package", name, "reason", err)
package log
