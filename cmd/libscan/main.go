// Package main provides the entry point for the libscan CLI.
//
// libscan catalogues the public API surface of Go libraries. It loads a
// library, walks its sub-packages, and records every exported function and
// type together with signature and documentation data.
//
// Usage:
//
//	libscan scan <import-path-or-directory>
//	libscan scan --only Mean,Median <import-path>
//
// See --help for all available options.
package main

// main is the entry point for libscan.
func main() {
	Execute()
}
