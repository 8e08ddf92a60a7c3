package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/frontaudit/internal/config"
	"github.com/nao1215/frontaudit/internal/database"
	"github.com/spf13/cobra"
)

const noFindingsMessage = "No findings"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded audit runs",
		Long: `History lists the runs recorded with 'frontaudit scan --save-history'.

Without --input every audited directory is listed. With --input the runs
for that directory are shown with their IDs, which 'frontaudit compare
--with-run-id' accepts.

Examples:
  # List audited directories
  frontaudit history

  # List runs for ./public
  frontaudit history -i ./public`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("input", "i", "",
		"List runs for this input directory")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyDirFlag returns --history-dir, falling back to the XDG data directory.
func historyDirFlag(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = config.XDGDataDir()
	}
	return dir, nil
}

// openHistory opens an existing history database.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	dir, err := historyDirFlag(cmd)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
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

	if input == "" {
		return listInputs(ctx, cmd.OutOrStdout(), db)
	}
	return listRunHistory(ctx, cmd.OutOrStdout(), db, historyKey(input))
}

// listInputs lists every input directory with recorded runs.
func listInputs(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	inputs, err := db.ListInputs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list inputs: %w", err)
	}

	if len(inputs) == 0 {
		fmt.Fprintln(out, "No audit runs found in the database.")
		fmt.Fprintln(out, "\nUse 'frontaudit scan --save-history' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Audited directories (%d):\n\n", len(inputs))
	for _, input := range inputs {
		fmt.Fprintf(out, "  • %s\n", input)
	}
	fmt.Fprintln(out, "\nUse 'frontaudit history -i <dir>' to see the runs for a directory.")
	return nil
}

// listRunHistory lists the runs recorded for one input directory.
func listRunHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, input string) error {
	runs, err := db.GetHistoryWithMetadata(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No audit history found for %s\n", input)
		return nil
	}

	fmt.Fprintf(out, "Audit history for %s (%d runs):\n\n", input, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %s\n", "ID", "Date", "Files", "Findings")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 56))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FileCount,
			formatSummary(run.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'frontaudit compare -i <dir>' to compare the latest two runs.")
	return nil
}

// formatSummary renders a run summary such as "W:2 I:3".
func formatSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary[database.SummaryWarning]; v > 0 {
		parts = append(parts, fmt.Sprintf("W:%d", v))
	}
	if v := summary[database.SummaryInfo]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}
	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}
