package model

// FunctionRecord describes one package-level function discovered during a
// scan. Records are plain values: once created they are never mutated and
// hold no references to the loaded package they were derived from.
type FunctionRecord struct {
	// Name is the function's declared name.
	Name string `json:"name"`

	// Args holds the parameter names in declaration order.
	// It may be empty when no usable signature data was available.
	Args []string `json:"args"`

	// OptionalCount is the number of parameters that carry a default value
	// or accept a variable number of arguments. For signatures extracted
	// from Go source this counts variadic parameters; textual and doc-derived
	// signatures may also contribute defaulted parameters (name=value).
	OptionalCount int `json:"optionalCount"`

	// Doc is the function's documentation text, possibly empty.
	Doc string `json:"doc"`

	// Package is the import path of the package that declares the function.
	Package string `json:"package"`
}

// MethodRecord describes one method of a catalogued type. It has the same
// shape as FunctionRecord minus the owning package, which is carried by the
// enclosing ClassRecord.
type MethodRecord struct {
	// Name is the method's declared name.
	Name string `json:"name"`

	// Args holds the parameter names in declaration order.
	Args []string `json:"args"`

	// OptionalCount is the number of variadic parameters.
	// Methods are extracted from structured signatures only, so this is
	// zero unless the method is variadic.
	OptionalCount int `json:"optionalCount"`

	// Doc is the method's documentation text, possibly empty.
	Doc string `json:"doc"`
}

// ClassRecord describes one exported named type together with its methods
// and associated constructor functions.
type ClassRecord struct {
	// Name is the type's declared name.
	Name string `json:"name"`

	// Doc is the type's documentation text, possibly empty.
	Doc string `json:"doc"`

	// Package is the import path of the package that declares the type.
	Package string `json:"package"`

	// Methods lists the type's exported methods and constructors in
	// declaration order. A type with no qualifying methods still produces
	// a ClassRecord with an empty method list.
	Methods []MethodRecord `json:"methods"`
}

// Key returns the deduplication key for the record. Two same-named types
// declared in different packages must not collide, so the key combines the
// owning package path and the type name.
func (c ClassRecord) Key() string {
	return c.Package + "." + c.Name
}
