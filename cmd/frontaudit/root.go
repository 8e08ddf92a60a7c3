package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/frontaudit/internal/log"
	"github.com/spf13/cobra"
)

// Log output formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// ErrInvalidLogFormat is returned for a --log-format other than text or json.
var ErrInvalidLogFormat = errors.New("invalid log format")

// NewRootCmd creates the root command for frontaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frontaudit",
		Short: "Static auditor for HTML, CSS and JavaScript files",
		Long: `frontaudit scans front-end source files for suspicious or potentially
malicious patterns: hidden HTML comments, invisible elements, iframes and
scripts loaded over plain HTTP, suspicious CSS classes and eval() calls.

Each run writes a timestamped report to the report directory.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", logFormatText, "Log format: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return logFormatText
		}
	}
	return format
}

// newLogger returns the secure logger selected by --log-format, writing to w.
func newLogger(cmd *cobra.Command, w io.Writer, verbose bool) (*slog.Logger, error) {
	switch format := getLogFormatFlag(cmd); format {
	case logFormatText:
		return log.NewSecureLogger(w, verbose), nil
	case logFormatJSON:
		return log.NewSecureJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("%w: %q (use text or json)", ErrInvalidLogFormat, format)
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
