package inspect

import (
	"go/doc"
	"go/types"
	"log/slog"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/nao1215/libscan/internal/model"
)

// Extractor derives function and class records from loaded packages.
//
// Function signatures go through a cascading fallback: structured extraction
// from the declaration's parameter list, then a textual signature rendered
// from type information, then the first line of the doc comment. When every
// step fails the record is kept with an empty argument list rather than
// dropped. Methods use the structured step only.
type Extractor struct {
	// root is the import path prefix of the scanned library. Packages
	// outside this prefix (for example vendored foreign code reached by
	// the tree walk) contribute nothing to the catalogue.
	root string

	// allow restricts extraction to the listed symbol names.
	// Empty means every exported symbol qualifies.
	allow map[string]bool

	// logger receives debug notices for absorbed extraction faults.
	logger *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithAllowList restricts extraction to the given symbol names.
func WithAllowList(names []string) ExtractorOption {
	return func(e *Extractor) {
		if len(names) == 0 {
			return
		}
		e.allow = make(map[string]bool, len(names))
		for _, name := range names {
			e.allow[name] = true
		}
	}
}

// WithExtractorLogger sets a custom logger for extraction diagnostics.
func WithExtractorLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor for a library rooted at the given
// import path.
func NewExtractor(root string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{root: root}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// want reports whether a symbol name should be catalogued.
func (e *Extractor) want(name string) bool {
	return len(e.allow) == 0 || e.allow[name]
}

// Visit extracts all qualifying records from the package and merges them
// into the result, honoring its first-seen-wins deduplication. Extraction
// faults are absorbed: a package whose documentation cannot be assembled
// contributes nothing, and the surrounding traversal continues.
func (e *Extractor) Visit(pkg *packages.Package, result *model.AnalysisResult) {
	if pkg == nil {
		return
	}

	// Re-exported trees (vendor directories and the like) declare foreign
	// import paths. Only packages beneath the scanned root qualify.
	if !strings.HasPrefix(pkg.PkgPath, e.root) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("metadata extraction panicked, skipping package",
				"package", pkg.PkgPath,
				"panic", r,
			)
		}
	}()

	docPkg, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath)
	if err != nil {
		e.logger.Debug("could not assemble package docs, skipping",
			"package", pkg.PkgPath,
			"reason", err,
		)
		return
	}

	result.PackagesVisited++

	for _, fn := range docPkg.Funcs {
		if !e.want(fn.Name) {
			continue
		}
		result.AddFunction(e.functionRecord(fn, pkg))
	}

	for _, tp := range docPkg.Types {
		if !e.want(tp.Name) {
			continue
		}
		result.AddClass(e.classRecord(tp, pkg))
	}
}

// functionRecord builds a FunctionRecord for a package-level function,
// running the full signature cascade. Any fault inside the cascade degrades
// the record to empty argument data instead of failing.
func (e *Extractor) functionRecord(fn *doc.Func, pkg *packages.Package) (rec model.FunctionRecord) {
	rec = model.FunctionRecord{
		Name:    fn.Name,
		Args:    []string{},
		Doc:     strings.TrimSpace(fn.Doc),
		Package: pkg.PkgPath,
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("signature extraction panicked, keeping degraded record",
				"function", fn.Name,
				"package", pkg.PkgPath,
				"panic", r,
			)
		}
	}()

	args, optional := structuredArgs(fn.Decl)
	if len(args) == 0 {
		if sig := e.textSignature(pkg, fn.Name); sig != "" {
			args, optional = ParseTextSignature(sig)
		} else if rec.Doc != "" {
			if docArgs, docOptional, ok := ParseDocSignature(rec.Doc); ok {
				args, optional = docArgs, docOptional
			}
		}
	}

	if args != nil {
		rec.Args = args
	}
	rec.OptionalCount = optional
	return rec
}

// classRecord builds a ClassRecord for an exported named type. Constructor
// functions associated with the type come first in the method list, then
// the type's methods, both in declaration order.
func (e *Extractor) classRecord(tp *doc.Type, pkg *packages.Package) model.ClassRecord {
	rec := model.ClassRecord{
		Name:    tp.Name,
		Doc:     strings.TrimSpace(tp.Doc),
		Package: pkg.PkgPath,
		Methods: []model.MethodRecord{},
	}

	for _, fn := range tp.Funcs {
		rec.Methods = append(rec.Methods, methodRecord(fn))
	}
	for _, m := range tp.Methods {
		rec.Methods = append(rec.Methods, methodRecord(m))
	}

	return rec
}

// methodRecord builds a MethodRecord using the structured signature step
// only; methods get no textual or doc fallback.
func methodRecord(fn *doc.Func) model.MethodRecord {
	rec := model.MethodRecord{
		Name: fn.Name,
		Args: []string{},
		Doc:  strings.TrimSpace(fn.Doc),
	}

	args, optional := structuredArgs(fn.Decl)
	if args != nil {
		rec.Args = args
	}
	rec.OptionalCount = optional
	return rec
}

// textSignature renders a textual signature for a package-level function
// from type information, or returns the empty string when the package has
// no type data for the name.
func (e *Extractor) textSignature(pkg *packages.Package, name string) string {
	if pkg.Types == nil {
		return ""
	}

	fn, ok := pkg.Types.Scope().Lookup(name).(*types.Func)
	if !ok {
		return ""
	}

	return renderSignature(fn)
}
