package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/frontaudit/internal/config"
	"github.com/nao1215/frontaudit/internal/model"
)

// testTime is the fixed run time of createTestReport.
var testTime = time.Date(2024, 5, 1, 13, 45, 9, 0, time.UTC)

// createTestReport creates a report with one dirty and one clean file.
func createTestReport() *model.AuditReport {
	report := model.NewAuditReport(testTime)
	report.Add(model.FileReport{
		Target: model.NewTarget("index.html"),
		Findings: []model.Finding{
			model.NewFinding(model.TypeHTMLComment, "Comment found: `TODO`, manual review recommended", "TODO"),
			model.NewFinding(model.TypeInsecureScript, "Insecure external script loaded over HTTP.", ""),
		},
		Digest: "abc123",
	})
	report.Add(model.FileReport{
		Target:   model.NewTarget("styles.css"),
		Findings: []model.Finding{},
	})
	return report
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title, date and file sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# " + ReportTitle,
			"**Date:** 2024-05-01_13-45-09",
			"## 🔍 Results for index.html",
			"- Comment found: `TODO`, manual review recommended",
			"- ⚠️ Insecure external script loaded over HTTP.",
			"## 🔍 Results for styles.css",
			NoFindingsText,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "Summary") {
			t.Error("summary should be omitted by default")
		}
	})

	t.Run("keeps file order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Index(output, "index.html") > strings.Index(output, "styles.css") {
			t.Error("expected index.html section before styles.css")
		}
	})

	t.Run("summary with pie chart and warning alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithSummary(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"## Summary", "```mermaid", "pie", "[!WARNING]"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q\n%s", want, output)
			}
		}
	})

	t.Run("summary without findings shows tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewAuditReport(testTime)
		if _, err := NewMarkdownWriter(&buf, WithSummary(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Contains(output, "```mermaid") {
			t.Error("pie chart should be omitted without findings")
		}
		if !strings.Contains(output, "[!TIP]") {
			t.Errorf("expected tip alert\n%s", output)
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}
	})
}

// TestSimpleWriter tests the plain text report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes findings and summary line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			ReportTitle,
			"Date: 2024-05-01_13-45-09",
			"Results for index.html",
			"- ⚠️ Insecure external script loaded over HTTP.",
			NoFindingsText,
			"Files: 2  Warnings: 1  Info: 1",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "Recommendation:") {
			t.Error("recommendations should only appear in verbose mode")
		}
	})

	t.Run("verbose adds type, digest and recommendations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"Results for index.html [Markup]",
			"Results for styles.css [Stylesheet]",
			"sha3-256: abc123",
			"Recommendation: ",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q\n%s", want, output)
			}
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid json with summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got.Date != "2024-05-01_13-45-09" {
			t.Errorf("Date = %q", got.Date)
		}
		if got.Warnings != 1 || got.Info != 1 {
			t.Errorf("Warnings/Info = %d/%d, want 1/1", got.Warnings, got.Info)
		}
		if got.Report == nil || len(got.Report.Files) != 2 {
			t.Fatalf("expected 2 files in report")
		}
		if got.Report.Files[0].Findings[1].Type != model.TypeInsecureScript {
			t.Errorf("unexpected finding order: %+v", got.Report.Files[0].Findings)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected one trailing newline, got %q", buf.String())
		}
	})

	t.Run("indent option", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"date\"") {
			t.Errorf("expected tab indentation, got %s", buf.String())
		}
	})
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write(*model.AuditReport) (int, error) {
	return 0, errors.New("boom")
}

// TestMultiWriter tests writing to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var md, txt bytes.Buffer
		mw := NewMultiWriter(NewMarkdownWriter(&md), NewSimpleWriter(&txt))
		n, err := mw.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Len() == 0 || txt.Len() == 0 {
			t.Error("expected output in both buffers")
		}
		if n < txt.Len() {
			t.Errorf("total %d smaller than text output %d", n, txt.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var txt bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&txt))
		if _, err := mw.Write(createTestReport()); err == nil {
			t.Fatal("expected error")
		}
		if txt.Len() != 0 {
			t.Error("writers after the failing one should not run")
		}
	})
}

// TestFileName tests report file naming.
func TestFileName(t *testing.T) {
	t.Parallel()

	report := model.NewAuditReport(testTime)
	tests := []struct {
		format string
		want   string
	}{
		{config.FormatMarkdown, "auditoria_2024-05-01_13-45-09.md"},
		{config.FormatText, "auditoria_2024-05-01_13-45-09.txt"},
		{config.FormatJSON, "auditoria_2024-05-01_13-45-09.json"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			if got := FileName(report, tt.format); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNewWriter tests writer selection by format.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	for _, format := range config.Formats() {
		w, err := NewWriter(format, &bytes.Buffer{}, false)
		if err != nil || w == nil {
			t.Errorf("NewWriter(%q) = %v, %v", format, w, err)
		}
	}
	if _, err := NewWriter("html", &bytes.Buffer{}, false); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

// TestSave tests saving a report to disk.
func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("creates directory and file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "audit-reports", "nested")
		path, err := Save(dir, createTestReport(), config.FormatMarkdown)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(dir, "auditoria_2024-05-01_13-45-09.md"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(data), "## 🔍 Results for index.html") {
			t.Errorf("unexpected report content:\n%s", data)
		}
	})

	t.Run("verbose text output reaches the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path, err := Save(dir, createTestReport(), config.FormatText, WithVerboseOutput(true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		for _, want := range []string{"[Markup]", "sha3-256: abc123", "Recommendation: "} {
			if !strings.Contains(string(data), want) {
				t.Errorf("report missing %q\n%s", want, data)
			}
		}
	})

	t.Run("mirror receives the same report", func(t *testing.T) {
		t.Parallel()

		var mirror bytes.Buffer
		path, err := Save(t.TempDir(), createTestReport(), config.FormatMarkdown, WithMirror(&mirror))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if mirror.String() != string(data) {
			t.Errorf("mirror differs from file\nmirror:\n%s\nfile:\n%s", mirror.String(), data)
		}
	})

	t.Run("unknown format leaves no file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if _, err := Save(dir, createTestReport(), "html"); !errors.Is(err, ErrUnknownFormat) {
			t.Fatalf("expected ErrUnknownFormat, got %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty directory, got %d entries", len(entries))
		}
	})

	t.Run("unwritable directory returns error", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		blocker := filepath.Join(base, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Save(filepath.Join(blocker, "reports"), createTestReport(), config.FormatText); err == nil {
			t.Error("expected error when report dir is below a regular file")
		}
	})
}
