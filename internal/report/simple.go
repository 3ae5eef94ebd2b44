package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/libscan/internal/model"
)

// SimpleWriter outputs human-readable text catalogues.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no records are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with documentation lines and
// originating packages.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full catalogue in human-readable format.
func (w *SimpleWriter) Write(result *model.AnalysisResult) (int, error) {
	var sb strings.Builder

	summary := model.NewSummary(result)

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFunctions(&sb, result)
	w.writeClasses(&sb, result)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the catalogue header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LIBSCAN CATALOGUE\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Library:   %s\n", summary.Library))
	sb.WriteString(fmt.Sprintf("Scan Date: %s\n", summary.DateScanned.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeCounts writes the record count section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CATALOGUE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %ss: %d\n", model.KindLabel(model.KindFunction), summary.FunctionCount))
	sb.WriteString(fmt.Sprintf("  %ses:  %d\n", model.KindLabel(model.KindClass), summary.ClassCount))
	sb.WriteString(fmt.Sprintf("  %ss:   %d\n", model.KindLabel(model.KindMethod), summary.MethodCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Packages visited: %d\n", summary.PackagesVisited))
	sb.WriteString(fmt.Sprintf("  Packages skipped: %d\n", summary.PackagesSkipped))
	if summary.DegradedCount > 0 {
		sb.WriteString(fmt.Sprintf("  Degraded records: %d (no usable signature)\n", summary.DegradedCount))
	}
	sb.WriteString("\n")
}

// writeFunctions writes the function catalogue section.
func (w *SimpleWriter) writeFunctions(sb *strings.Builder, result *model.AnalysisResult) {
	if len(result.Functions) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FUNCTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Functions) == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}

	for _, fn := range result.Functions {
		sb.WriteString(fmt.Sprintf("  %s%s\n", fn.Name, formatArgs(fn.Args, fn.OptionalCount)))
		if w.verbose {
			if fn.Package != "" {
				sb.WriteString(fmt.Sprintf("      package: %s\n", fn.Package))
			}
			if fn.Doc != "" {
				sb.WriteString(fmt.Sprintf("      doc:     %s\n", firstLine(fn.Doc)))
			}
		}
	}
	sb.WriteString("\n")
}

// writeClasses writes the class catalogue section.
func (w *SimpleWriter) writeClasses(sb *strings.Builder, result *model.AnalysisResult) {
	if len(result.Classes) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CLASSES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Classes) == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}

	for _, cls := range result.Classes {
		sb.WriteString(fmt.Sprintf("  %s (%d methods)\n", cls.Key(), len(cls.Methods)))
		if w.verbose && cls.Doc != "" {
			sb.WriteString(fmt.Sprintf("      doc: %s\n", firstLine(cls.Doc)))
		}
		for _, m := range cls.Methods {
			sb.WriteString(fmt.Sprintf("      .%s%s\n", m.Name, formatArgs(m.Args, m.OptionalCount)))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the closing line with timing information.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	total := summary.FunctionCount + summary.ClassCount
	sb.WriteString(fmt.Sprintf("Catalogued %d entries from %s\n", total, summary.Library))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// formatArgs renders an argument list as "(a, b)" with an optional-count
// note when some arguments have defaults.
func formatArgs(args []string, optional int) string {
	rendered := "(" + strings.Join(args, ", ") + ")"
	if optional > 0 {
		rendered += fmt.Sprintf(" [%d optional]", optional)
	}
	return rendered
}

// firstLine returns the first line of a documentation string.
func firstLine(doc string) string {
	if i := strings.IndexByte(doc, '\n'); i >= 0 {
		return doc[:i]
	}
	return doc
}
