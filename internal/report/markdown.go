package report

import (
	"io"
	"strconv"

	"github.com/nao1215/frontaudit/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// Markdown report text.
const (
	// ReportTitle is the H1 heading of every report.
	ReportTitle = "📝 Audit Report"

	// NoFindingsText is written under a file header when the file is clean.
	NoFindingsText = "✅ No relevant findings."
)

// MarkdownWriter outputs reports in Markdown format.
//
// The body is the title, a date line, then one "Results for" section per
// processed file listing its finding lines. An optional summary with a
// severity table and a mermaid pie chart follows the file sections.
type MarkdownWriter struct {
	baseWriter

	// summary appends the severity summary after the file sections.
	summary bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithSummary appends a severity summary section to the document.
func WithSummary(enabled bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.summary = enabled
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(ReportTitle)
	md.PlainTextf("**Date:** %s", report.TimestampLabel())
	md.PlainText("")

	for _, file := range report.Files {
		w.writeFile(md, file)
	}

	if w.summary {
		w.writeSummary(md, report)
	}

	return len(md.String()), md.Build()
}

// writeFile writes the section for one processed file.
func (w *MarkdownWriter) writeFile(md *markdown.Markdown, file model.FileReport) {
	md.H2("🔍 Results for " + file.Target.Name)
	if !file.HasFindings() {
		md.PlainText(NoFindingsText)
		md.PlainText("")
		return
	}
	for _, f := range file.Findings {
		md.PlainText(f.Text())
	}
	md.PlainText("")
}

// writeSummary writes the severity table, chart and closing alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AuditReport) {
	md.HorizontalRule()
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"⚠️ Warning", strconv.Itoa(report.WarningCount())},
			{"Info", strconv.Itoa(report.InfoCount())},
			{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if report.HasFindings() {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Finding Severity Distribution"),
			piechart.WithShowData(true),
		)
		if n := report.WarningCount(); n > 0 {
			chart.LabelAndIntValue("Warning", uint64(n))
		}
		if n := report.InfoCount(); n > 0 {
			chart.LabelAndIntValue("Info", uint64(n))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case report.WarningCount() > 0:
		md.Warningf("%d warning(s) detected. Review them before publishing.", report.WarningCount())
	case report.HasFindings():
		md.Note("Only informational findings detected.")
	default:
		md.Tip("No relevant findings in any audited file.")
	}
	md.PlainText("")
}
