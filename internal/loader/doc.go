// Package loader provides failure-contained package loading for library
// scans.
//
// A scan enumerates sub-packages dynamically, so any individual load may hit
// broken source, missing dependencies, or toolchain panics. Loader.Load
// absorbs every such failure and returns an absent result instead; the only
// observable side effect is a one-line debug notice naming the skipped
// package and the reason. The scanning host never terminates because of a
// single candidate package.
package loader
