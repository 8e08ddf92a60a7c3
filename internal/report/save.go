package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/frontaudit/internal/config"
	"github.com/nao1215/frontaudit/internal/model"
)

// FilePrefix starts every saved report file name.
const FilePrefix = "auditoria_"

// ErrUnknownFormat is returned for a format name no writer handles.
var ErrUnknownFormat = errors.New("unknown report format")

// NewWriter returns the writer for the given format name.
// Markdown output includes the severity summary. verbose only affects the
// text format, which then adds content types, digests and recommendations.
func NewWriter(format string, output io.Writer, verbose bool) (Writer, error) {
	switch format {
	case config.FormatMarkdown:
		return NewMarkdownWriter(output, WithSummary(true)), nil
	case config.FormatText:
		return NewSimpleWriter(output, WithVerbose(verbose)), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Extension returns the file extension, without the dot, for a format.
func Extension(format string) string {
	switch format {
	case config.FormatText:
		return "txt"
	case config.FormatJSON:
		return "json"
	default:
		return "md"
	}
}

// FileName returns the report file name, e.g. auditoria_2024-05-01_13-45-09.md.
func FileName(report *model.AuditReport, format string) string {
	return FilePrefix + report.TimestampLabel() + "." + Extension(format)
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	verbose bool
	mirror  io.Writer
}

// WithVerboseOutput passes verbose to the format's writer.
func WithVerboseOutput(verbose bool) SaveOption {
	return func(o *saveOptions) {
		o.verbose = verbose
	}
}

// WithMirror renders the report to w as well as to the saved file.
func WithMirror(w io.Writer) SaveOption {
	return func(o *saveOptions) {
		o.mirror = w
	}
}

// Save renders the report and writes it under dir, creating dir if needed.
// It returns the path of the written file.
func Save(dir string, report *model.AuditReport, format string, opts ...SaveOption) (string, error) {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(report, format))
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to create report %s: %w", path, err)
	}

	w, err := newSaveWriter(format, f, o)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if _, err := w.Write(report); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// newSaveWriter returns the writer for the report file, fanned out to the
// mirror when one is set.
func newSaveWriter(format string, f io.Writer, o saveOptions) (Writer, error) {
	fw, err := NewWriter(format, f, o.verbose)
	if err != nil {
		return nil, err
	}
	if o.mirror == nil {
		return fw, nil
	}

	mw, err := NewWriter(format, o.mirror, o.verbose)
	if err != nil {
		return nil, err
	}
	return NewMultiWriter(fw, mw), nil
}
