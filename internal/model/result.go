package model

import "time"

// AnalysisResult is the catalogue produced by scanning one library.
// It accumulates function and class records during traversal and enforces
// the deduplication rules: function names are unique across the whole
// catalogue, class keys (package + name) likewise, and in both cases the
// first-discovered record wins.
type AnalysisResult struct {
	// Library is the import path of the scanned library's root package.
	Library string `json:"library"`

	// DateScanned is the timestamp when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`

	// Functions holds all discovered function records in first-discovery
	// order.
	Functions []FunctionRecord `json:"functions"`

	// Classes holds all discovered class records in first-discovery order.
	Classes []ClassRecord `json:"classes"`

	// PackagesVisited counts packages that were loaded and inspected.
	PackagesVisited int `json:"packages_visited"`

	// PackagesSkipped counts sub-packages that failed to load or matched
	// a skip suffix. Skips are diagnostics only; they never fail a scan.
	PackagesSkipped int `json:"packages_skipped"`

	// seenFunctions tracks function names already catalogued.
	seenFunctions map[string]bool

	// seenClasses tracks class keys already catalogued.
	seenClasses map[string]bool
}

// NewAnalysisResult creates an empty result for the given library.
func NewAnalysisResult(library string) *AnalysisResult {
	return &AnalysisResult{
		Library:       library,
		DateScanned:   time.Now(),
		Functions:     []FunctionRecord{},
		Classes:       []ClassRecord{},
		seenFunctions: make(map[string]bool),
		seenClasses:   make(map[string]bool),
	}
}

// ensureSeen builds the dedup indexes when they are missing, seeding them
// from records already present. A result decoded from JSON arrives with
// populated slices but without the unexported maps.
func (r *AnalysisResult) ensureSeen() {
	if r.seenFunctions == nil {
		r.seenFunctions = make(map[string]bool, len(r.Functions))
		for _, f := range r.Functions {
			r.seenFunctions[f.Name] = true
		}
	}
	if r.seenClasses == nil {
		r.seenClasses = make(map[string]bool, len(r.Classes))
		for _, c := range r.Classes {
			r.seenClasses[c.Key()] = true
		}
	}
}

// AddFunction appends the record unless a function with the same name was
// already catalogued. It reports whether the record was kept.
func (r *AnalysisResult) AddFunction(rec FunctionRecord) bool {
	r.ensureSeen()
	if r.seenFunctions[rec.Name] {
		return false
	}
	r.seenFunctions[rec.Name] = true
	r.Functions = append(r.Functions, rec)
	return true
}

// AddClass appends the record unless a class with the same package and name
// was already catalogued. It reports whether the record was kept.
func (r *AnalysisResult) AddClass(rec ClassRecord) bool {
	r.ensureSeen()
	key := rec.Key()
	if r.seenClasses[key] {
		return false
	}
	r.seenClasses[key] = true
	r.Classes = append(r.Classes, rec)
	return true
}

// FunctionNames returns the catalogued function names in discovery order.
func (r *AnalysisResult) FunctionNames() []string {
	names := make([]string, len(r.Functions))
	for i, f := range r.Functions {
		names[i] = f.Name
	}
	return names
}

// ClassKeys returns the catalogued class keys in discovery order.
func (r *AnalysisResult) ClassKeys() []string {
	keys := make([]string, len(r.Classes))
	for i, c := range r.Classes {
		keys[i] = c.Key()
	}
	return keys
}
