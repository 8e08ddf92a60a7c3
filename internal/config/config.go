package config

import (
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the layout of a small static site: the audited files sit in
// the working directory and reports collect in a sibling folder.
const (
	// DefaultInputDir is the directory target files are resolved against.
	DefaultInputDir = "."

	// DefaultReportDir is the directory reports are written to.
	// It is created on first use.
	DefaultReportDir = "audit-reports"

	// DefaultConcurrency analyzes one file at a time.
	// The target list is short, so parallelism rarely pays off.
	DefaultConcurrency = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "frontaudit"

	// XDGConfigFile is the config file name looked up in XDGConfigDir.
	XDGConfigFile = "config.yaml"
)

// Report formats.
const (
	// FormatMarkdown writes a Markdown document (.md).
	FormatMarkdown = "markdown"
	// FormatText writes a plain text document (.txt).
	FormatText = "text"
	// FormatJSON writes the report as JSON (.json).
	FormatJSON = "json"
)

// DefaultTargets returns the files audited when none are configured.
func DefaultTargets() []string {
	return []string{"index.html", "styles.css", "script.js"}
}

// Formats returns all supported report formats.
func Formats() []string {
	return []string{FormatMarkdown, FormatText, FormatJSON}
}

// Config holds all configuration options for frontaudit.
// This struct is populated from defaults, the optional config file, and CLI
// flags, in that order, and passed explicitly to the components that need it.
//
// Design decision: We use a single flat struct, as the number of options is
// small and every component reads only a few of them.
type Config struct {
	// InputDir is the directory target names are resolved against.
	InputDir string

	// ReportDir is the directory the report file is written to.
	ReportDir string

	// Targets is the ordered list of files to audit, relative to InputDir.
	Targets []string

	// Format is the report format: markdown, text or json.
	Format string

	// Concurrency is the maximum number of files analyzed in parallel.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .frontaudit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ToStdout prints the report to stdout in addition to writing the file.
	ToStdout bool

	// SaveHistory records the finished report in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/frontaudit on Linux).
	HistoryDir string

	// FailOnWarning makes the scan command fail when any warning was found.
	// The report is still written first.
	FailOnWarning bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		InputDir:    DefaultInputDir,
		ReportDir:   DefaultReportDir,
		Targets:     DefaultTargets(),
		Format:      FormatMarkdown,
		Concurrency: DefaultConcurrency,
		HistoryDir:  XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for frontaudit.
// On Linux: ~/.local/share/frontaudit
// On macOS: ~/Library/Application Support/frontaudit
// On Windows: %LOCALAPPDATA%\frontaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for frontaudit.
// On Linux: ~/.config/frontaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.ReportDir == "" {
		return ErrEmptyReportDir
	}

	if !slices.Contains(Formats(), c.Format) {
		return ErrInvalidFormat
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.SaveHistory && c.HistoryDir == "" {
		return ErrEmptyHistoryDir
	}

	return nil
}
