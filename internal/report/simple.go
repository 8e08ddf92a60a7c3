package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/frontaudit/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ruleWidth is the width of the horizontal rules in text output.
const ruleWidth = 60

// SimpleWriter outputs plain text reports for terminal display.
// It uses ASCII rules instead of ANSI colors so output can be piped to files.
type SimpleWriter struct {
	baseWriter

	// verbose adds the content type, digest and recommendations.
	verbose bool

	// title formats content type labels.
	title cases.Caser
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in plain text.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(ReportTitle)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Date: %s\n\n", report.TimestampLabel())

	for _, file := range report.Files {
		w.writeFile(&sb, file)
	}

	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Files: %d  Warnings: %d  Info: %d\n",
		len(report.Files), report.WarningCount(), report.InfoCount())

	return io.WriteString(w.output, sb.String())
}

// writeFile writes the section for one processed file.
func (w *SimpleWriter) writeFile(sb *strings.Builder, file model.FileReport) {
	sb.WriteString("Results for " + file.Target.Name)
	if w.verbose {
		fmt.Fprintf(sb, " [%s]", w.title.String(file.Target.Type.String()))
	}
	sb.WriteString("\n")
	if w.verbose && file.Digest != "" {
		fmt.Fprintf(sb, "  sha3-256: %s\n", file.Digest)
	}

	if !file.HasFindings() {
		sb.WriteString(NoFindingsText)
		sb.WriteString("\n\n")
		return
	}
	for _, f := range file.Findings {
		sb.WriteString(f.Text())
		sb.WriteString("\n")
		if w.verbose {
			fmt.Fprintf(sb, "    Recommendation: %s\n", f.Recommendation())
		}
	}
	sb.WriteString("\n")
}
