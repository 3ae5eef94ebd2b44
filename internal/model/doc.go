// Package model defines the catalogue data structures produced by a scan.
//
// The central types are:
//   - FunctionRecord: one package-level function with its best-effort
//     argument list, optional-argument count, and doc text
//   - ClassRecord: one exported named type with its MethodRecords
//   - AnalysisResult: the merged, de-duplicated catalogue for one library
//   - Summary: a condensed view used by the report writers
//
// Records are self-contained values with no back-references to the loaded
// packages they were derived from. AnalysisResult enforces the catalogue
// invariants: no two functions share a name, no two classes share a
// (package, name) key, and for duplicates the first-discovered record wins.
package model
