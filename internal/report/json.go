package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/libscan/internal/model"
)

// JSONWriter outputs catalogues in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in the output when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion embeds the given tool version in the JSON output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full catalogue in JSON format.
func (w *JSONWriter) Write(result *model.AnalysisResult) (int, error) {
	if w.version != "" {
		return w.writeJSON(NewJSONCatalogue(result, w.version))
	}
	return w.writeJSON(result)
}

// WriteSummary outputs only the summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v interface{}) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONCatalogue is a wrapper for the full catalogue with additional metadata.
// This is used when writing the complete catalogue with contextual
// information.
//
// Design decision: We wrap the result rather than modifying AnalysisResult
// because this allows us to add output-specific fields without polluting
// the core data structure.
type JSONCatalogue struct {
	// Version is the libscan version that generated this catalogue.
	Version string `json:"version"`

	// Catalogue is the full analysis result.
	Catalogue *model.AnalysisResult `json:"catalogue"`

	// Summary is the condensed view for quick access.
	Summary *model.Summary `json:"summary,omitempty"`
}

// NewJSONCatalogue creates a JSONCatalogue wrapper with version information.
func NewJSONCatalogue(result *model.AnalysisResult, version string) *JSONCatalogue {
	return &JSONCatalogue{
		Version:   version,
		Catalogue: result,
		Summary:   model.NewSummary(result),
	}
}
