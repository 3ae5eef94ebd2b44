// Package inspect extracts API-surface metadata from loaded packages.
//
// For every exported package-level function it derives a best-effort
// argument list and optional-argument count through a cascade that stops at
// the first success:
//  1. structured introspection of the declaration's parameter list
//  2. a textual signature rendered from type information
//  3. the first doc comment line matched against the "name(args)" pattern
//
// When all three fail the record keeps an empty argument list; that is an
// accepted degraded result, not an error. Exported named types become class
// records carrying their constructors and exported methods, extracted with
// the structured step only. Any fault raised while inspecting a single
// symbol is absorbed locally and never aborts the surrounding traversal.
package inspect
