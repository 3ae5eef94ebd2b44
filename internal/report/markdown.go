package report

import (
	"io"
	"strconv"

	"github.com/nao1215/libscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs catalogues in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full catalogue in Markdown format.
func (w *MarkdownWriter) Write(result *model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewSummary(result)

	w.writeHeader(md, summary)
	w.writeOverview(md, summary)
	w.writeFunctions(md, result)
	w.writeClasses(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeOverview(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the catalogue header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Library Catalogue")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Library", "`" + summary.Library + "`"},
			{"Scan Date", summary.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Packages Visited", strconv.Itoa(summary.PackagesVisited)},
			{"Packages Skipped", strconv.Itoa(summary.PackagesSkipped)},
		},
	})
	md.PlainText("")
}

// writeOverview writes the record count section.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Overview")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{model.KindLabel(model.KindFunction), strconv.Itoa(summary.FunctionCount)},
			{model.KindLabel(model.KindClass), strconv.Itoa(summary.ClassCount)},
			{model.KindLabel(model.KindMethod), strconv.Itoa(summary.MethodCount)},
		},
	})
	md.PlainText("")

	if summary.FunctionCount > 0 || summary.ClassCount > 0 || summary.MethodCount > 0 {
		w.writePieChart(md, summary)
	}

	if summary.DegradedCount > 0 {
		md.Warningf(
			"%d function(s) were catalogued without a usable signature.",
			summary.DegradedCount,
		)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart for record kind distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Catalogue Entry Distribution"),
		piechart.WithShowData(true),
	)

	if summary.FunctionCount > 0 {
		chart.LabelAndIntValue(model.KindLabel(model.KindFunction), uint64(summary.FunctionCount))
	}
	if summary.ClassCount > 0 {
		chart.LabelAndIntValue(model.KindLabel(model.KindClass), uint64(summary.ClassCount))
	}
	if summary.MethodCount > 0 {
		chart.LabelAndIntValue(model.KindLabel(model.KindMethod), uint64(summary.MethodCount))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFunctions writes the function catalogue table.
func (w *MarkdownWriter) writeFunctions(md *markdown.Markdown, result *model.AnalysisResult) {
	if len(result.Functions) == 0 {
		return
	}

	md.H2("Functions")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Functions))
	for _, fn := range result.Functions {
		rows = append(rows, []string{
			"`" + fn.Name + "`",
			"`" + formatArgs(fn.Args, 0) + "`",
			strconv.Itoa(fn.OptionalCount),
			firstLine(fn.Doc),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Arguments", "Optional", "Documentation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeClasses writes the class catalogue section.
func (w *MarkdownWriter) writeClasses(md *markdown.Markdown, result *model.AnalysisResult) {
	if len(result.Classes) == 0 {
		return
	}

	md.H2("Classes")
	md.PlainText("")

	for _, cls := range result.Classes {
		md.H3("`" + cls.Key() + "`")
		md.PlainText("")

		if cls.Doc != "" {
			md.PlainText(firstLine(cls.Doc))
			md.PlainText("")
		}

		if len(cls.Methods) == 0 {
			md.PlainText("No exported methods.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(cls.Methods))
		for _, m := range cls.Methods {
			rows = append(rows, []string{
				"`" + m.Name + "`",
				"`" + formatArgs(m.Args, 0) + "`",
				strconv.Itoa(m.OptionalCount),
				firstLine(m.Doc),
			})
		}

		md.Table(markdown.TableSet{
			Header: []string{"Method", "Arguments", "Optional", "Documentation"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the closing line.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("Generated by libscan.")
}
