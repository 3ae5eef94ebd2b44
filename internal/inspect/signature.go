package inspect

import (
	"go/ast"
	"go/types"
	"regexp"
	"strings"
)

// docSignatureRE matches a doc comment whose first line looks like a call
// signature, e.g. "Sqrt(x)" or "foo(p, q=3)". The capture group holds the
// argument text between the parentheses.
var docSignatureRE = regexp.MustCompile(`^\s*[a-zA-Z_][a-zA-Z0-9_]*\((.*?)\)`)

// structuredArgs extracts parameter names and the optional-argument count
// from a function declaration. The optional count is the number of
// parameters that accept a variable number of arguments.
//
// A declaration with any unnamed parameter yields no usable list: callers
// fall through to the textual cascade step, which can at least render the
// parameter types.
func structuredArgs(decl *ast.FuncDecl) (args []string, optional int) {
	if decl == nil || decl.Type == nil || decl.Type.Params == nil {
		return nil, 0
	}

	for _, field := range decl.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, 0
		}
		_, variadic := field.Type.(*ast.Ellipsis)
		for _, name := range field.Names {
			args = append(args, name.Name)
			if variadic {
				optional++
			}
		}
	}

	return args, optional
}

// ParseTextSignature parses a textual signature string such as "(x, y=2)"
// into parameter names and an optional-argument count. Enclosing
// parentheses are stripped, tokens are split on commas, bare positional and
// keyword-only separator markers ("/" and "*") are discarded, and for each
// remaining token the substring before any "=" is the parameter name. The
// optional count is the number of tokens containing "=".
func ParseTextSignature(sig string) (args []string, optional int) {
	body := strings.Trim(strings.TrimSpace(sig), "()")
	return parseArgTokens(body)
}

// ParseDocSignature matches the first line of documentation text against
// the "name(args)" pattern and, on a match, parses the captured argument
// text the same way ParseTextSignature does. It reports whether the
// pattern matched at all; a match with an empty argument list is a valid,
// degraded result.
func ParseDocSignature(doc string) (args []string, optional int, ok bool) {
	m := docSignatureRE.FindStringSubmatch(doc)
	if m == nil {
		return nil, 0, false
	}
	args, optional = parseArgTokens(m[1])
	return args, optional, true
}

// parseArgTokens tokenizes comma-separated argument text shared by the
// textual and doc-derived cascade steps.
func parseArgTokens(body string) (args []string, optional int) {
	if strings.TrimSpace(body) == "" {
		return nil, 0
	}

	for _, token := range strings.Split(body, ",") {
		token = strings.TrimSpace(token)
		if token == "" || token == "/" || token == "*" {
			continue
		}
		if strings.Contains(token, "=") {
			optional++
		}
		name := strings.TrimSpace(strings.SplitN(token, "=", 2)[0])
		// Go-style tokens carry the type after the name ("x int");
		// the name is the first field.
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		args = append(args, name)
	}

	return args, optional
}

// renderSignature produces a textual signature for a package-level function
// from type information, e.g. "(x int, ys ...string)". It returns the empty
// string when no signature can be rendered.
func renderSignature(fn *types.Func) string {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return ""
	}

	qual := types.RelativeTo(fn.Pkg())
	params := sig.Params()

	var b strings.Builder
	b.WriteString("(")
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		v := params.At(i)
		if v.Name() != "" {
			b.WriteString(v.Name())
			b.WriteString(" ")
		}

		t := v.Type()
		if sig.Variadic() && i == params.Len()-1 {
			if s, isSlice := t.(*types.Slice); isSlice {
				b.WriteString("...")
				t = s.Elem()
			}
		}
		b.WriteString(types.TypeString(t, qual))
	}
	b.WriteString(")")

	return b.String()
}
