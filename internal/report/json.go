package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/frontaudit/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps an AuditReport with its summary counts.
type JSONReport struct {
	// Date is the run timestamp label, as used in the report file name.
	Date string `json:"date"`

	// Warnings is the number of warning findings.
	Warnings int `json:"warnings"`

	// Info is the number of informational findings.
	Info int `json:"info"`

	// Report is the full audit report.
	Report *model.AuditReport `json:"report"`
}

// NewJSONReport creates a JSONReport for the given report.
func NewJSONReport(report *model.AuditReport) *JSONReport {
	return &JSONReport{
		Date:     report.TimestampLabel(),
		Warnings: report.WarningCount(),
		Info:     report.InfoCount(),
		Report:   report,
	}
}

// Write outputs the wrapped report as JSON followed by a newline.
func (w *JSONWriter) Write(report *model.AuditReport) (int, error) {
	var (
		data []byte
		err  error
	)
	v := NewJSONReport(report)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
