package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".frontaudit"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .frontaudit configuration file.
// Zero values mean "not set" and leave the current configuration untouched.
type File struct {
	// Input is the directory target files are read from.
	Input string `yaml:"input,omitempty"`

	// ReportDir is the directory reports are written to.
	ReportDir string `yaml:"reportDir,omitempty"`

	// Targets replaces the default target list.
	Targets []string `yaml:"targets,omitempty"`

	// Format is the report format.
	Format string `yaml:"format,omitempty"`

	// Concurrency is the number of files analyzed in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`

	// SaveHistory records every run in the history database.
	SaveHistory bool `yaml:"saveHistory,omitempty"`

	// HistoryDir overrides the history database directory.
	HistoryDir string `yaml:"historyDir,omitempty"`
}

// Apply copies every value set in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.Input != "" {
		cfg.InputDir = f.Input
	}
	if f.ReportDir != "" {
		cfg.ReportDir = f.ReportDir
	}
	if len(f.Targets) > 0 {
		cfg.Targets = append([]string(nil), f.Targets...)
	}
	if f.Format != "" {
		cfg.Format = f.Format
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.SaveHistory {
		cfg.SaveHistory = true
	}
	if f.HistoryDir != "" {
		cfg.HistoryDir = f.HistoryDir
	}
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .frontaudit in the current directory
// 3. Look for .frontaudit in the user's home directory
// 4. Look for config.yaml in the XDG config directory (~/.config/frontaudit)
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return searchConfigFile(dirs, XDGConfigDir())
}

// searchConfigFile returns the first .frontaudit found in dirs, then falls
// back to XDGConfigFile under xdgDir.
func searchConfigFile(dirs []string, xdgDir string) string {
	candidates := make([]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(xdgDir, XDGConfigFile))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
