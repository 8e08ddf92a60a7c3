package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/frontaudit/internal/model"
)

// FileName is the name of the history database inside its directory.
const FileName = "frontaudit.db"

// runAtLayout is how run timestamps are stored. It sorts lexically.
const runAtLayout = "2006-01-02 15:04:05"

// HistoryDB stores finished audit reports so later runs can be compared
// against earlier ones. Reports are written once and never updated.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists unset, a missing database is an error.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s (run a scan with --save-history first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per finished audit run
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_dir TEXT NOT NULL,
		run_at TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		file_count INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON audit_runs(input_dir);
	CREATE INDEX IF NOT EXISTS idx_runs_run_at ON audit_runs(run_at);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Summary keys stored with each run.
const (
	SummaryWarning = "warning"
	SummaryInfo    = "info"
)

// SaveAuditReport records a finished report for inputDir and returns its run ID.
func (h *HistoryDB) SaveAuditReport(ctx context.Context, inputDir string, report *model.AuditReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := map[string]int{
		SummaryWarning: report.WarningCount(),
		SummaryInfo:    report.InfoCount(),
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // map[string]int always marshals

	result, err := h.db.ExecContext(ctx, `
	INSERT INTO audit_runs (input_dir, run_at, file_count, report_json, summary)
	VALUES (?, ?, ?, ?, ?)
	`,
		inputDir,
		report.Timestamp.UTC().Format(runAtLayout),
		len(report.Files),
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save audit report: %w", err)
	}
	return result.LastInsertId()
}

// GetLatestAuditReport returns the most recent report for inputDir,
// or nil if none was recorded.
func (h *HistoryDB) GetLatestAuditReport(ctx context.Context, inputDir string) (*model.AuditReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `
	SELECT report_json FROM audit_runs
	WHERE input_dir = ?
	ORDER BY run_at DESC, id DESC
	LIMIT 1
	`, inputDir).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}
	return decodeReport(reportJSON)
}

// ListInputs returns every input directory with recorded runs.
func (h *HistoryDB) ListInputs(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT DISTINCT input_dir FROM audit_runs
	ORDER BY input_dir
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inputs: %w", err)
	}
	defer rows.Close()

	var inputs []string
	for rows.Next() {
		var input string
		if err := rows.Scan(&input); err != nil {
			return nil, fmt.Errorf("failed to scan input: %w", err)
		}
		inputs = append(inputs, input)
	}
	return inputs, rows.Err()
}

// RunMetadata summarizes one recorded run without loading the full report.
type RunMetadata struct {
	// ID is the run identifier, usable with GetReportByID.
	ID int64

	// InputDir is the audited directory.
	InputDir string

	// Timestamp is when the run started.
	Timestamp time.Time

	// FileCount is the number of processed files.
	FileCount int

	// Summary holds finding counts keyed by SummaryWarning and SummaryInfo.
	Summary map[string]int
}

// GetHistoryWithMetadata returns run metadata for inputDir, newest first.
func (h *HistoryDB) GetHistoryWithMetadata(ctx context.Context, inputDir string) ([]RunMetadata, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, input_dir, run_at, file_count, summary
	FROM audit_runs
	WHERE input_dir = ?
	ORDER BY run_at DESC, id DESC
	`, inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var (
			meta        RunMetadata
			runAt       string
			summaryJSON sql.NullString
		)
		if err := rows.Scan(&meta.ID, &meta.InputDir, &runAt, &meta.FileCount, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(runAt)

		meta.Summary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.Summary); err != nil {
				meta.Summary = make(map[string]int)
			}
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// GetReportByID returns the report stored under id, or nil if there is none.
func (h *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.AuditReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM audit_runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}
	return decodeReport(reportJSON)
}

func decodeReport(s string) (*model.AuditReport, error) {
	var report model.AuditReport
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats are the layouts SQLite may hand back for a time column.
// More specific formats come first.
var timestampFormats = []string{
	runAtLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known layout and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
