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

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/nobelstats/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "nobelstats.db"

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores finished analysis runs.
type HistoryDB struct {
	db     *sql.DB
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
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s (run with --save first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

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
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		data_file TEXT NOT NULL,
		fingerprint TEXT,
		analyzed_at TEXT NOT NULL,
		record_count INTEGER DEFAULT 0,
		warnings INTEGER DEFAULT 0,
		report_json TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_data_file ON runs(data_file);
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored analysis run.
type Run struct {
	// ID is the run's UUID.
	ID string

	DataFile    string
	Fingerprint string
	AnalyzedAt  time.Time
	RecordCount int
	Warnings    int

	// Report and Summary are decoded from the stored JSON. They are nil
	// when only metadata was requested.
	Report  *model.AnalysisReport
	Summary *model.Summary
}

// SaveRun stores report under a new UUID, sets report.RunID, and returns
// the ID.
func (h *HistoryDB) SaveRun(ctx context.Context, report *model.AnalysisReport) (string, error) {
	id := uuid.New().String()
	report.RunID = id

	reportJSON, err := json.Marshal(report)
	if err != nil {
		report.RunID = ""
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(model.NewSummary(report))
	if err != nil {
		report.RunID = ""
		return "", fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO runs (id, data_file, fingerprint, analyzed_at, record_count, warnings, report_json, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = h.db.ExecContext(ctx, query,
		id,
		report.DataFile,
		report.Fingerprint,
		report.DateAnalyzed.UTC().Format(time.RFC3339Nano),
		report.RecordCount,
		len(report.Warnings),
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		report.RunID = ""
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	return id, nil
}

// GetRun returns the run with the given ID, including its report and
// summary. It returns ErrRunNotFound if there is none.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
	SELECT id, data_file, fingerprint, analyzed_at, record_count, warnings, report_json, summary_json
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(h.db.QueryRowContext(ctx, query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRuns returns up to n runs of dataFile with reports, newest first.
func (h *HistoryDB) LatestRuns(ctx context.Context, dataFile string, n int) ([]*Run, error) {
	query := `
	SELECT id, data_file, fingerprint, analyzed_at, record_count, warnings, report_json, summary_json
	FROM runs
	WHERE data_file = ?
	ORDER BY seq DESC
	LIMIT ?
	`

	return h.queryRuns(ctx, true, query, dataFile, n)
}

// ListRuns returns run metadata for dataFile, newest first. An empty
// dataFile lists every run.
func (h *HistoryDB) ListRuns(ctx context.Context, dataFile string) ([]*Run, error) {
	query := `
	SELECT id, data_file, fingerprint, analyzed_at, record_count, warnings, '', ''
	FROM runs
	WHERE ? = '' OR data_file = ?
	ORDER BY seq DESC
	`

	return h.queryRuns(ctx, false, query, dataFile, dataFile)
}

// ListDatasets returns every dataset path with at least one stored run.
func (h *HistoryDB) ListDatasets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT data_file FROM runs
	ORDER BY data_file
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []string
	for rows.Next() {
		var ds string
		if err := rows.Scan(&ds); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}

	return datasets, rows.Err()
}

func (h *HistoryDB) queryRuns(ctx context.Context, withReport bool, query string, args ...any) ([]*Run, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows, withReport)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, withReport bool) (*Run, error) {
	var (
		run         Run
		fingerprint sql.NullString
		analyzedAt  string
		reportJSON  string
		summaryJSON string
	)
	err := row.Scan(&run.ID, &run.DataFile, &fingerprint, &analyzedAt,
		&run.RecordCount, &run.Warnings, &reportJSON, &summaryJSON)
	if err != nil {
		return nil, err
	}
	run.Fingerprint = fingerprint.String
	run.AnalyzedAt = parseTimestamp(analyzedAt)

	if !withReport {
		return &run, nil
	}

	run.Report = &model.AnalysisReport{}
	if err := json.Unmarshal([]byte(reportJSON), run.Report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	run.Summary = &model.Summary{}
	if err := json.Unmarshal([]byte(summaryJSON), run.Summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &run, nil
}

// timestampFormats are tried in order. Runs store RFC3339Nano; the others
// cover rows written by hand or by SQLite's CURRENT_TIMESTAMP.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time if s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
