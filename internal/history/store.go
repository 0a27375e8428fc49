package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the history database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// RecordBackupRun inserts a completed backup run.
func (s *Store) RecordBackupRun(ctx context.Context, run BackupRun) error {
	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO backup_runs (
            run_id, started_at, finished_at, sources_json, destination,
            bytes_sent, success, unmounted, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(sourcesJSON),
		run.Destination,
		run.BytesSent,
		boolToInt(run.Success),
		boolToInt(run.Unmounted),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert backup run: %w", err)
	}
	return nil
}

// RecordRatingRun inserts a completed rating run with its applied events.
func (s *Store) RecordRatingRun(ctx context.Context, run RatingRun, events []RatingEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rating_runs (
            run_id, base_dir, started_at, finished_at, scanned, applied, skipped, missing
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.BaseDir,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Scanned,
		run.Applied,
		run.Skipped,
		run.Missing,
	)
	if err != nil {
		return fmt.Errorf("insert rating run: %w", err)
	}
	runRowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, event := range events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rating_events (rating_run_id, file, rating, percent, applied_at)
             VALUES (?, ?, ?, ?, ?)`,
			runRowID,
			event.File,
			event.Rating,
			event.Percent,
			event.AppliedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert rating event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rating run: %w", err)
	}
	return nil
}

// ListBackupRuns returns the most recent backup runs, newest first.
func (s *Store) ListBackupRuns(ctx context.Context, limit int) ([]BackupRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, finished_at, sources_json, destination,
                bytes_sent, success, unmounted, error_message
         FROM backup_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query backup runs: %w", err)
	}
	defer rows.Close()

	var runs []BackupRun
	for rows.Next() {
		var run BackupRun
		var started, finished, sourcesJSON string
		var success, unmounted int
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.RunID, &started, &finished, &sourcesJSON,
			&run.Destination, &run.BytesSent, &success, &unmounted, &errMsg); err != nil {
			return nil, fmt.Errorf("scan backup run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		run.Success = success != 0
		run.Unmounted = unmounted != 0
		run.ErrorMessage = errMsg.String
		if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListRatingRuns returns the most recent rating runs, newest first.
func (s *Store) ListRatingRuns(ctx context.Context, limit int) ([]RatingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, base_dir, started_at, finished_at, scanned, applied, skipped, missing
         FROM rating_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rating runs: %w", err)
	}
	defer rows.Close()

	var runs []RatingRun
	for rows.Next() {
		var run RatingRun
		var started, finished string
		if err := rows.Scan(&run.ID, &run.RunID, &run.BaseDir, &started, &finished,
			&run.Scanned, &run.Applied, &run.Skipped, &run.Missing); err != nil {
			return nil, fmt.Errorf("scan rating run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListRatingEvents returns the applied ratings for one rating run.
func (s *Store) ListRatingEvents(ctx context.Context, ratingRunID int64) ([]RatingEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, rating, percent, applied_at
         FROM rating_events WHERE rating_run_id = ? ORDER BY id`, ratingRunID)
	if err != nil {
		return nil, fmt.Errorf("query rating events: %w", err)
	}
	defer rows.Close()

	var events []RatingEvent
	for rows.Next() {
		var event RatingEvent
		var applied string
		if err := rows.Scan(&event.ID, &event.File, &event.Rating, &event.Percent, &applied); err != nil {
			return nil, fmt.Errorf("scan rating event: %w", err)
		}
		event.AppliedAt = parseTimestamp(applied)
		events = append(events, event)
	}
	return events, rows.Err()
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
