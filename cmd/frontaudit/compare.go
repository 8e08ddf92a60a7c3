package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/frontaudit/internal/database"
	"github.com/nao1215/frontaudit/internal/model"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// Risk directions of a comparison.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
)

// warningWeight is how much more a warning counts than an info finding
// when deciding the risk direction.
const warningWeight = 10

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the latest audit run with an earlier one",
		Long: `Compare shows what changed between two recorded runs of the same input
directory:
- New findings that appeared since the earlier run
- Resolved findings that are no longer present
- Files whose content changed, even when their findings did not
- The overall risk direction

By default the latest run is compared with the run before it. Runs are
recorded with 'frontaudit scan --save-history'.

Examples:
  # Compare the latest two runs of the current directory
  frontaudit compare

  # Compare the latest run of ./public with run 5
  frontaudit compare -i ./public --with-run-id 5

  # Output the comparison as JSON
  frontaudit compare --json`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("input", "i", ".",
		"Input directory whose runs are compared")
	cmd.Flags().Int64("with-run-id", 0,
		"Compare with a specific run by ID (see 'frontaudit history')")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := runComparison(ctx, db, historyKey(input), withRunID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// runComparison loads the two runs to compare and diffs them.
func runComparison(ctx context.Context, db *database.HistoryDB, input string, withRunID int64) (*ComparisonResult, error) {
	runs, err := db.GetHistoryWithMetadata(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no audit history found for %s", input)
	}

	currentID := runs[0].ID
	var previousID int64
	switch {
	case withRunID > 0:
		if withRunID == currentID {
			return nil, fmt.Errorf("run %d is the latest run; choose an earlier one", withRunID)
		}
		for _, run := range runs {
			if run.ID == withRunID {
				previousID = run.ID
				break
			}
		}
		if previousID == 0 {
			return nil, fmt.Errorf("run %d not found for %s", withRunID, input)
		}
	case len(runs) < 2:
		return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	default:
		previousID = runs[1].ID
	}

	current, err := db.GetLatestAuditReport(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("no audit history found for %s", input)
	}
	previous, err := loadRun(ctx, db, previousID)
	if err != nil {
		return nil, err
	}

	result := compareReports(previous, current)
	result.Input = input
	result.PreviousRun.ID = previousID
	result.CurrentRun.ID = currentID
	return result, nil
}

// loadRun loads one report from the history database.
func loadRun(ctx context.Context, db *database.HistoryDB, id int64) (*model.AuditReport, error) {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("run %d not found", id)
	}
	return r, nil
}

// ComparisonResult holds the result of comparing two audit runs.
type ComparisonResult struct {
	// Input is the audited directory.
	Input string `json:"input"`

	// PreviousRun summarizes the earlier run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun summarizes the latest run.
	CurrentRun RunSummary `json:"current_run"`

	// NewFindings are present only in the current run.
	NewFindings []FileFinding `json:"new_findings,omitempty"`

	// ResolvedFindings are present only in the previous run.
	ResolvedFindings []FileFinding `json:"resolved_findings,omitempty"`

	// ChangedFiles were processed in both runs with different content.
	ChangedFiles []string `json:"changed_files,omitempty"`

	// AddedFiles were processed only in the current run.
	AddedFiles []string `json:"added_files,omitempty"`

	// RemovedFiles were processed only in the previous run.
	RemovedFiles []string `json:"removed_files,omitempty"`

	// UnchangedCount is the number of findings present in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// RiskChange describes the overall change in risk.
	RiskChange RiskChange `json:"risk_change"`
}

// RunSummary contains the counts of one run.
type RunSummary struct {
	ID            int64     `json:"id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	FileCount     int       `json:"file_count"`
	TotalFindings int       `json:"total_findings"`
	WarningCount  int       `json:"warning_count"`
	InfoCount     int       `json:"info_count"`
}

// FileFinding is a finding together with the file it was found in.
type FileFinding struct {
	File string `json:"file"`
	model.Finding
}

// RiskChange describes the change in risk between two runs.
type RiskChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// WarningDelta is the change in warning count.
	WarningDelta int `json:"warning_delta"`

	// InfoDelta is the change in info count.
	InfoDelta int `json:"info_delta"`
}

func summarize(r *model.AuditReport) RunSummary {
	return RunSummary{
		Timestamp:     r.Timestamp,
		FileCount:     len(r.Files),
		TotalFindings: r.TotalFindings(),
		WarningCount:  r.WarningCount(),
		InfoCount:     r.InfoCount(),
	}
}

// compareReports diffs two reports. Output follows the file and finding
// order of the report each entry comes from.
func compareReports(previous, current *model.AuditReport) *ComparisonResult {
	result := &ComparisonResult{
		PreviousRun: summarize(previous),
		CurrentRun:  summarize(current),
	}

	previousKeys := findingKeys(previous)
	currentKeys := findingKeys(current)

	for _, file := range current.Files {
		for _, f := range file.Findings {
			if previousKeys[findingKey(file.Target.Name, f)] {
				result.UnchangedCount++
				continue
			}
			result.NewFindings = append(result.NewFindings, FileFinding{File: file.Target.Name, Finding: f})
		}

		old := previous.File(file.Target.Name)
		switch {
		case old == nil:
			result.AddedFiles = append(result.AddedFiles, file.Target.Name)
		case old.Digest != "" && file.Digest != "" && old.Digest != file.Digest:
			result.ChangedFiles = append(result.ChangedFiles, file.Target.Name)
		}
	}

	for _, file := range previous.Files {
		for _, f := range file.Findings {
			if !currentKeys[findingKey(file.Target.Name, f)] {
				result.ResolvedFindings = append(result.ResolvedFindings, FileFinding{File: file.Target.Name, Finding: f})
			}
		}
		if current.File(file.Target.Name) == nil {
			result.RemovedFiles = append(result.RemovedFiles, file.Target.Name)
		}
	}

	result.RiskChange = calculateRiskChange(result.PreviousRun, result.CurrentRun)
	return result
}

func findingKeys(r *model.AuditReport) map[string]bool {
	keys := make(map[string]bool)
	for _, file := range r.Files {
		for _, f := range file.Findings {
			keys[findingKey(file.Target.Name, f)] = true
		}
	}
	return keys
}

// findingKey identifies a finding across runs.
func findingKey(file string, f model.Finding) string {
	return file + "|" + f.Type + "|" + f.Value
}

// calculateRiskChange weighs warnings above info findings.
func calculateRiskChange(previous, current RunSummary) RiskChange {
	change := RiskChange{
		WarningDelta: current.WarningCount - previous.WarningCount,
		InfoDelta:    current.InfoCount - previous.InfoCount,
	}

	previousScore := previous.WarningCount*warningWeight + previous.InfoCount
	currentScore := current.WarningCount*warningWeight + current.InfoCount

	switch {
	case currentScore < previousScore:
		change.Direction = riskDirectionImproved
	case currentScore > previousScore:
		change.Direction = riskDirectionWorsened
	default:
		change.Direction = riskDirectionUnchanged
	}
	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Audit Comparison: " + result.Input)
	md.PlainText("")
	md.PlainTextf("**Risk Status:** %s", formatRiskDirection(result.RiskChange.Direction))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Run", strconv.FormatInt(result.PreviousRun.ID, 10), strconv.FormatInt(result.CurrentRun.ID, 10), "-"},
			{"Date", result.PreviousRun.Timestamp.Format("2006-01-02 15:04"), result.CurrentRun.Timestamp.Format("2006-01-02 15:04"), "-"},
			{"Warning", strconv.Itoa(result.PreviousRun.WarningCount), strconv.Itoa(result.CurrentRun.WarningCount), formatDelta(result.RiskChange.WarningDelta)},
			{"Info", strconv.Itoa(result.PreviousRun.InfoCount), strconv.Itoa(result.CurrentRun.InfoCount), formatDelta(result.RiskChange.InfoDelta)},
			{
				"**Total**",
				"**" + strconv.Itoa(result.PreviousRun.TotalFindings) + "**",
				"**" + strconv.Itoa(result.CurrentRun.TotalFindings) + "**",
				"**" + formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings) + "**",
			},
		},
	})

	if len(result.NewFindings) > 0 {
		md.PlainText("")
		md.H2(fmt.Sprintf("New Findings (%d)", len(result.NewFindings)))
		md.BulletList(findingLines(result.NewFindings, "")...)
	}
	if len(result.ResolvedFindings) > 0 {
		md.PlainText("")
		md.H2(fmt.Sprintf("Resolved Findings (%d)", len(result.ResolvedFindings)))
		md.BulletList(findingLines(result.ResolvedFindings, "~~")...)
	}
	if files := changedFileLines(result); len(files) > 0 {
		md.PlainText("")
		md.H2("Changed Files")
		md.BulletList(files...)
	}
	if result.UnchangedCount > 0 {
		md.PlainText("")
		md.HorizontalRule()
		md.PlainTextf("*%d findings unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// findingLines renders findings as list items, optionally wrapped in mark.
func findingLines(findings []FileFinding, mark string) []string {
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = fmt.Sprintf("%s**[%s]** `%s`: %s%s", mark, f.SeverityText, f.File, f.Message, mark)
	}
	return lines
}

// changedFileLines lists added, removed and edited files.
func changedFileLines(result *ComparisonResult) []string {
	var lines []string
	for _, f := range result.AddedFiles {
		lines = append(lines, "added: "+f)
	}
	for _, f := range result.RemovedFiles {
		lines = append(lines, "removed: "+f)
	}
	for _, f := range result.ChangedFiles {
		lines = append(lines, "content changed: "+f)
	}
	return lines
}

// outputComparisonText outputs the comparison result as plain text.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Audit Comparison: %s\n", result.Input)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "\nRisk Status: %s\n", formatRiskDirection(result.RiskChange.Direction))
	fmt.Fprintf(&sb, "\nPrevious run: #%d  %s\n", result.PreviousRun.ID, result.PreviousRun.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Current run:  #%d  %s\n", result.CurrentRun.ID, result.CurrentRun.Timestamp.Format("2006-01-02 15:04:05"))

	sb.WriteString("\nFindings Summary:\n")
	fmt.Fprintf(&sb, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Warning",
		result.PreviousRun.WarningCount, result.CurrentRun.WarningCount, formatDelta(result.RiskChange.WarningDelta))
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Info",
		result.PreviousRun.InfoCount, result.CurrentRun.InfoCount, formatDelta(result.RiskChange.InfoDelta))
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalFindings, result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(&sb, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(&sb, "  [+] [%s] %s: %s\n", f.SeverityText, f.File, f.Message)
		}
	}
	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(&sb, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(&sb, "  [-] [%s] %s: %s\n", f.SeverityText, f.File, f.Message)
		}
	}
	if files := changedFileLines(result); len(files) > 0 {
		sb.WriteString("\nFiles:\n")
		for _, line := range files {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
	}
	if result.UnchangedCount > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (risk decreased)"
	case riskDirectionWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
