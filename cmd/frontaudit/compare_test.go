package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/frontaudit/internal/database"
	"github.com/nao1215/frontaudit/internal/model"
)

var (
	commentFinding = model.NewFinding(model.TypeHTMLComment, "Comment found: `TODO`, manual review recommended", "TODO")
	scriptFinding  = model.NewFinding(model.TypeInsecureScript, "Insecure external script loaded over HTTP.", "")
	evalFinding    = model.NewFinding(model.TypeDynamicCodeEval, "Use of `eval()` detected, it may be unsafe.", "eval(")
)

// buildReport creates a report whose files are given as name, digest and findings.
func buildReport(ts time.Time, files ...model.FileReport) *model.AuditReport {
	r := model.NewAuditReport(ts)
	for _, f := range files {
		if f.Findings == nil {
			f.Findings = []model.Finding{}
		}
		r.Add(f)
	}
	return r
}

func fileReport(name, digest string, findings ...model.Finding) model.FileReport {
	return model.FileReport{Target: model.NewTarget(name), Findings: findings, Digest: digest}
}

// seedHistory stores reports for input, oldest first, and returns the db directory.
func seedHistory(t *testing.T, input string, reports ...*model.AuditReport) (string, []int64) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ids := make([]int64, 0, len(reports))
	for _, r := range reports {
		id, err := db.SaveAuditReport(context.Background(), historyKey(input), r)
		if err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		ids = append(ids, id)
	}
	return dir, ids
}

var (
	t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

// TestCompareReports tests diffing two audit reports.
func TestCompareReports(t *testing.T) {
	t.Parallel()

	previous := buildReport(t0,
		fileReport("index.html", "a", commentFinding, scriptFinding),
		fileReport("styles.css", "c"),
	)
	current := buildReport(t1,
		fileReport("index.html", "b", commentFinding),
		fileReport("script.js", "d", evalFinding),
	)

	result := compareReports(previous, current)

	if len(result.NewFindings) != 1 || result.NewFindings[0].Type != model.TypeDynamicCodeEval || result.NewFindings[0].File != "script.js" {
		t.Errorf("NewFindings = %+v", result.NewFindings)
	}
	if len(result.ResolvedFindings) != 1 || result.ResolvedFindings[0].Type != model.TypeInsecureScript {
		t.Errorf("ResolvedFindings = %+v", result.ResolvedFindings)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("UnchangedCount = %d, want 1", result.UnchangedCount)
	}
	if len(result.ChangedFiles) != 1 || result.ChangedFiles[0] != "index.html" {
		t.Errorf("ChangedFiles = %v", result.ChangedFiles)
	}
	if len(result.AddedFiles) != 1 || result.AddedFiles[0] != "script.js" {
		t.Errorf("AddedFiles = %v", result.AddedFiles)
	}
	if len(result.RemovedFiles) != 1 || result.RemovedFiles[0] != "styles.css" {
		t.Errorf("RemovedFiles = %v", result.RemovedFiles)
	}
	if result.RiskChange.Direction != riskDirectionUnchanged {
		t.Errorf("Direction = %q, want unchanged (1 warning swapped for 1 warning)", result.RiskChange.Direction)
	}
}

// TestFindingKey tests that findings are keyed per file.
func TestFindingKey(t *testing.T) {
	t.Parallel()

	if findingKey("a.html", commentFinding) == findingKey("b.html", commentFinding) {
		t.Error("same finding in different files must have different keys")
	}
	other := model.NewFinding(model.TypeHTMLComment, "Comment found: `x`, manual review recommended", "x")
	if findingKey("a.html", commentFinding) == findingKey("a.html", other) {
		t.Error("comments with different bodies must have different keys")
	}
}

// TestCalculateRiskChange tests risk direction and deltas.
func TestCalculateRiskChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous RunSummary
		current  RunSummary
		want     string
	}{
		{"fewer warnings", RunSummary{WarningCount: 2}, RunSummary{WarningCount: 1, InfoCount: 5}, riskDirectionImproved},
		{"new warning", RunSummary{InfoCount: 9}, RunSummary{WarningCount: 1}, riskDirectionWorsened},
		{"same", RunSummary{WarningCount: 1, InfoCount: 1}, RunSummary{WarningCount: 1, InfoCount: 1}, riskDirectionUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			change := calculateRiskChange(tt.previous, tt.current)
			if change.Direction != tt.want {
				t.Errorf("Direction = %q, want %q", change.Direction, tt.want)
			}
			if change.WarningDelta != tt.current.WarningCount-tt.previous.WarningCount {
				t.Errorf("WarningDelta = %d", change.WarningDelta)
			}
			if change.InfoDelta != tt.current.InfoCount-tt.previous.InfoCount {
				t.Errorf("InfoDelta = %d", change.InfoDelta)
			}
		})
	}
}

// TestFormatHelpers tests delta, direction and summary formatting.
func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	for in, want := range map[int]string{3: "+3", 0: "0", -2: "-2"} {
		if got := formatDelta(in); got != want {
			t.Errorf("formatDelta(%d) = %q, want %q", in, got, want)
		}
	}
	if got := formatRiskDirection(riskDirectionImproved); !strings.HasPrefix(got, "IMPROVED") {
		t.Errorf("formatRiskDirection(improved) = %q", got)
	}
	if got := formatRiskDirection("other"); got != "UNCHANGED" {
		t.Errorf("formatRiskDirection(other) = %q", got)
	}
	if got := formatSummary(map[string]int{database.SummaryWarning: 2, database.SummaryInfo: 3}); got != "W:2 I:3" {
		t.Errorf("formatSummary() = %q", got)
	}
	if got := formatSummary(map[string]int{}); got != noFindingsMessage {
		t.Errorf("formatSummary(empty) = %q", got)
	}
	if got := formatSummary(nil); got != "N/A" {
		t.Errorf("formatSummary(nil) = %q", got)
	}
}

// TestComparisonOutput tests the three output formats.
func TestComparisonOutput(t *testing.T) {
	t.Parallel()

	result := compareReports(
		buildReport(t0, fileReport("index.html", "a", commentFinding)),
		buildReport(t1, fileReport("index.html", "b", scriptFinding)),
	)
	result.Input = "/site"

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonText(&buf, result); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{
			"Audit Comparison: /site",
			"WORSENED",
			"[+] [WARNING] index.html: Insecure external script loaded over HTTP.",
			"[-] [INFO] index.html: Comment found",
			"content changed: index.html",
		} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %q\n%s", want, buf.String())
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonMarkdown(&buf, result); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{
			"# Audit Comparison: /site",
			"**Risk Status:** WORSENED",
			"## New Findings (1)",
			"## Resolved Findings (1)",
			"~~**[INFO]**",
		} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %q\n%s", want, buf.String())
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonJSON(&buf, result); err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		risk, ok := decoded["risk_change"].(map[string]any)
		if !ok || risk["direction"] != riskDirectionWorsened {
			t.Errorf("unexpected risk_change: %v", decoded["risk_change"])
		}
		newFindings, ok := decoded["new_findings"].([]any)
		if !ok || len(newFindings) != 1 {
			t.Fatalf("unexpected new_findings: %v", decoded["new_findings"])
		}
		first, ok := newFindings[0].(map[string]any)
		if !ok || first["file"] != "index.html" || first["type"] != model.TypeInsecureScript {
			t.Errorf("finding fields should be flattened: %v", newFindings[0])
		}
	})
}

// TestRunComparison tests run selection from the history database.
func TestRunComparison(t *testing.T) {
	t.Parallel()

	input := "/srv/site"
	dir, ids := seedHistory(t, input,
		buildReport(t0, fileReport("index.html", "a", commentFinding, scriptFinding)),
		buildReport(t1, fileReport("index.html", "b", commentFinding)),
		buildReport(t2, fileReport("index.html", "c")),
	)

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	key := historyKey(input)

	t.Run("latest two runs", func(t *testing.T) {
		result, err := runComparison(ctx, db, key, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PreviousRun.ID != ids[1] || result.CurrentRun.ID != ids[2] {
			t.Errorf("compared runs %d -> %d, want %d -> %d", result.PreviousRun.ID, result.CurrentRun.ID, ids[1], ids[2])
		}
		if len(result.ResolvedFindings) != 1 || result.RiskChange.Direction != riskDirectionImproved {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("with run id", func(t *testing.T) {
		result, err := runComparison(ctx, db, key, ids[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PreviousRun.ID != ids[0] || len(result.ResolvedFindings) != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := runComparison(ctx, db, key, ids[2]); err == nil {
			t.Error("expected error comparing latest run with itself")
		}
		if _, err := runComparison(ctx, db, key, 999); err == nil {
			t.Error("expected error for unknown run id")
		}
		if _, err := runComparison(ctx, db, "/other", 0); err == nil {
			t.Error("expected error for input without history")
		}
	})
}

// TestRunComparisonNeedsTwoRuns tests the single-run case.
func TestRunComparisonNeedsTwoRuns(t *testing.T) {
	t.Parallel()

	dir, _ := seedHistory(t, "/srv/one", buildReport(t0, fileReport("index.html", "a")))
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = runComparison(context.Background(), db, historyKey("/srv/one"), 0)
	if err == nil || !strings.Contains(err.Error(), "at least 2 runs") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestCompareAndHistoryCommands tests both commands through the root command.
func TestCompareAndHistoryCommands(t *testing.T) {
	t.Parallel()

	input := t.TempDir()
	dir, _ := seedHistory(t, input,
		buildReport(t0, fileReport("index.html", "a")),
		buildReport(t1, fileReport("index.html", "a", scriptFinding)),
	)

	run := func(args ...string) (string, error) {
		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := run("compare", "-i", input, "--history-dir", dir)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "WORSENED") {
		t.Errorf("unexpected compare output: %s", out)
	}

	out, err = run("history", "--history-dir", dir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, historyKey(input)) {
		t.Errorf("history should list the input: %s", out)
	}

	out, err = run("history", "-i", input, "--history-dir", dir)
	if err != nil {
		t.Fatalf("history -i failed: %v", err)
	}
	if !strings.Contains(out, "(2 runs)") || !strings.Contains(out, "W:1") {
		t.Errorf("unexpected history output: %s", out)
	}

	if _, err := run("compare", "--json", "--markdown", "--history-dir", dir); err == nil {
		t.Error("expected error for --json with --markdown")
	}

	if _, err := run("history", "--history-dir", t.TempDir()); err == nil {
		t.Error("expected error for missing database")
	}
}
