package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/frontaudit/internal/audit"
	"github.com/nao1215/frontaudit/internal/config"
	"github.com/nao1215/frontaudit/internal/database"
	"github.com/nao1215/frontaudit/internal/model"
	"github.com/nao1215/frontaudit/internal/report"
	"github.com/spf13/cobra"
)

// ErrWarningsFound is returned by scan --fail-on-warning when the report
// contains at least one warning.
var ErrWarningsFound = errors.New("warnings found")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [files...]",
		Short: "Audit front-end files and write a report",
		Long: `Scan reads each target file from the input directory, runs the analyzer
for its type and writes one report covering all files.

Files ending in .html are checked for comments, invisible elements and
insecure iframes or scripts. Files ending in .css are checked for suspicious
classes, and .js files for eval(). Missing files are skipped.

Examples:
  # Audit index.html, styles.css and script.js in the current directory
  frontaudit scan

  # Audit other files from ./public
  frontaudit scan -i ./public index.html about.html app.js

  # Write a JSON report and fail in CI when warnings are found
  frontaudit scan -f json --fail-on-warning

  # Record the run so it can be compared later
  frontaudit scan --save-history

Configuration file (.frontaudit) example:
  input: ./public
  reportDir: ./audit-reports
  targets:
    - index.html
    - styles.css
    - script.js
  format: markdown`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInputDir,
		"Directory the target files are read from")
	cmd.Flags().StringP("report-dir", "r", config.DefaultReportDir,
		"Directory the report is written to (created if needed)")
	cmd.Flags().StringP("format", "f", config.FormatMarkdown,
		"Report format: markdown, text or json")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .frontaudit in current or home directory, then $XDG_CONFIG_HOME/frontaudit/config.yaml)")
	cmd.Flags().Bool("stdout", false,
		"Also print the report to stdout")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of files analyzed in parallel")
	cmd.Flags().Bool("save-history", false,
		"Record the run in the history database")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().Bool("fail-on-warning", false,
		"Exit with an error when the report contains warnings")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(cmd, cmd.ErrOrStderr(), cfg.Verbose)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = runScan(ctx, cmd.OutOrStdout(), cfg, logger)
	return err
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file and flags.
// Flags override the file only when set explicitly. Positional arguments
// replace the target list.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; a missing default one is fine.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		if cfg.InputDir, err = flags.GetString("input"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("report-dir") {
		if cfg.ReportDir, err = flags.GetString("report-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save-history") {
		if cfg.SaveHistory, err = flags.GetBool("save-history"); err != nil {
			return nil, err
		}
	}
	if cfg.ToStdout, err = flags.GetBool("stdout"); err != nil {
		return nil, err
	}
	if cfg.FailOnWarning, err = flags.GetBool("fail-on-warning"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Targets = append([]string(nil), args...)
	}

	return cfg, nil
}

// runScan audits the configured targets, saves the report and returns its path.
func runScan(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) (string, error) {
	logger.Debug("starting audit",
		"input", cfg.InputDir,
		"targets", cfg.Targets,
		"format", cfg.Format,
		"concurrency", cfg.Concurrency,
	)

	auditor := audit.New(
		audit.NewDirProvider(cfg.InputDir),
		model.NewTargets(cfg.Targets...),
		audit.WithLogger(logger),
		audit.WithConcurrency(cfg.Concurrency),
	)
	auditReport, err := auditor.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("audit failed: %w", err)
	}

	saveOpts := []report.SaveOption{report.WithVerboseOutput(cfg.Verbose)}
	if cfg.ToStdout {
		saveOpts = append(saveOpts, report.WithMirror(out))
	}
	path, err := report.Save(cfg.ReportDir, auditReport, cfg.Format, saveOpts...)
	if err != nil {
		return "", err
	}

	if cfg.SaveHistory {
		if err := saveAuditReport(ctx, cfg, auditReport, logger); err != nil {
			logger.Error("failed to save audit report", "error", err)
		}
	}

	fmt.Fprintf(out, "Report generated at: %s\n", path)

	if cfg.FailOnWarning && auditReport.WarningCount() > 0 {
		return path, fmt.Errorf("%w: %d warning(s) in %s", ErrWarningsFound, auditReport.WarningCount(), path)
	}
	return path, nil
}

// historyKey returns the key runs of an input directory are stored under.
func historyKey(inputDir string) string {
	abs, err := filepath.Abs(inputDir)
	if err != nil {
		return filepath.Clean(inputDir)
	}
	return abs
}

// saveAuditReport records the report in the history database.
func saveAuditReport(ctx context.Context, cfg *config.Config, auditReport *model.AuditReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveAuditReport(ctx, historyKey(cfg.InputDir), auditReport)
	if err != nil {
		return err
	}
	logger.Debug("audit report saved to history", "id", id, "db", db.Path())
	return nil
}
