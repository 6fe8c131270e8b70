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

	"github.com/nao1215/backlinkscan/internal/model"
)

// ExportDB is a SQLite file that receives the results of one run.
type ExportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the SQLite database file.
	path string
}

// Create creates a fresh export database at path. An existing file at path
// is replaced, and missing parent directories are created.
func Create(path string) (*ExportDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to replace %s: %w", p, err)
		}
	}

	db, err := open(path, "rwc")
	if err != nil {
		return nil, err
	}

	edb := &ExportDB{db: db, path: path}
	if err := edb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return edb, nil
}

// open opens the SQLite file at path in the given mode (rw, rwc or ro).
func open(path, mode string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// Close closes the database connection.
func (e *ExportDB) Close() error {
	return e.db.Close()
}

// Path returns the database file path.
func (e *ExportDB) Path() string {
	return e.path
}

func (e *ExportDB) createTables() error {
	schema := `
	CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		backend TEXT NOT NULL,
		workers INTEGER NOT NULL,
		targets TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		good INTEGER NOT NULL,
		bad INTEGER NOT NULL,
		blocked_or_error INTEGER NOT NULL,
		blocked INTEGER NOT NULL,
		errored INTEGER NOT NULL
	);

	CREATE TABLE results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		backlink_url TEXT NOT NULL,
		status TEXT NOT NULL,
		found_targets TEXT NOT NULL,
		anchor_texts TEXT NOT NULL,
		link_types TEXT NOT NULL,
		http_status INTEGER,
		block_reason TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		elapsed_ms INTEGER NOT NULL,
		UNIQUE(run_id, idx)
	);

	CREATE INDEX idx_results_status ON results(status);
	`

	_, err := e.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores the run and all of its results in one transaction.
func (e *ExportDB) SaveRun(ctx context.Context, run *model.Run) (err error) {
	targetsJSON, err := json.Marshal(run.Targets)
	if err != nil {
		return fmt.Errorf("failed to serialize targets: %w", err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // original error wins
		}
	}()

	s := run.Stats
	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, backend, workers, targets, started_at, finished_at,
		total, good, bad, blocked_or_error, blocked, errored)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Backend),
		run.Workers,
		string(targetsJSON),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		s.Total, s.Good, s.Bad, s.BlockedOrError, s.Blocked, s.Errored,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO results (run_id, idx, backlink_url, status, found_targets,
		anchor_texts, link_types, http_status, block_reason, error, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range run.Results {
		row := r.Row()
		var status sql.NullInt64
		if r.HTTPStatus != nil {
			status = sql.NullInt64{Int64: int64(*r.HTTPStatus), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx,
			run.ID,
			r.Index,
			row.BacklinkURL,
			row.Status,
			row.FoundTargets,
			row.AnchorTexts,
			row.LinkTypes,
			status,
			r.BlockReason,
			r.Error,
			r.Elapsed.Milliseconds(),
		); err != nil {
			return fmt.Errorf("failed to insert result %d: %w", r.Index, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// RunRecord is a stored run row.
type RunRecord struct {
	ID         string
	Backend    model.Backend
	Workers    int
	Targets    []string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      model.RunStats
}

// GetRun returns the stored run with the given ID, or nil if there is none.
func (e *ExportDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var (
		rec                   RunRecord
		backend, targetsJSON  string
		startedAt, finishedAt string
	)
	err := e.db.QueryRowContext(ctx, `
	SELECT id, backend, workers, targets, started_at, finished_at,
		total, good, bad, blocked_or_error, blocked, errored
	FROM runs WHERE id = ?
	`, id).Scan(
		&rec.ID, &backend, &rec.Workers, &targetsJSON, &startedAt, &finishedAt,
		&rec.Stats.Total, &rec.Stats.Good, &rec.Stats.Bad,
		&rec.Stats.BlockedOrError, &rec.Stats.Blocked, &rec.Stats.Errored,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rec.Backend = model.Backend(backend)
	rec.Stats.Checked = rec.Stats.Good + rec.Stats.Bad + rec.Stats.BlockedOrError
	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)
	if err := json.Unmarshal([]byte(targetsJSON), &rec.Targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets: %w", err)
	}
	return &rec, nil
}

// ResultRecord is a stored result row.
type ResultRecord struct {
	Index       int
	Row         model.Row
	BlockReason string
	Error       string
	Elapsed     time.Duration
}

// ListResults returns the results of a run in submission order.
func (e *ExportDB) ListResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	rows, err := e.db.QueryContext(ctx, `
	SELECT idx, backlink_url, status, found_targets, anchor_texts, link_types,
		http_status, block_reason, error, elapsed_ms
	FROM results WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		var (
			rec       ResultRecord
			status    sql.NullInt64
			elapsedMs int64
		)
		if err := rows.Scan(
			&rec.Index,
			&rec.Row.BacklinkURL,
			&rec.Row.Status,
			&rec.Row.FoundTargets,
			&rec.Row.AnchorTexts,
			&rec.Row.LinkTypes,
			&status,
			&rec.BlockReason,
			&rec.Error,
			&elapsedMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if status.Valid {
			rec.Row.HTTPStatus = fmt.Sprintf("%d", status.Int64)
		}
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return records, nil
}

// Export writes run to a new SQLite file at path.
func Export(ctx context.Context, path string, run *model.Run) error {
	edb, err := Create(path)
	if err != nil {
		return err
	}
	if err := edb.SaveRun(ctx, run); err != nil {
		_ = edb.Close() //nolint:errcheck // already failing
		return err
	}
	return edb.Close()
}

// timestampFormats contains the timestamp formats accepted when reading
// runs back. The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
