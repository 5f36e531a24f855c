package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const selectColumns = "SELECT id, run_id, event_type, version, stage, exit_code, timestamp, payload FROM release_events"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the history database, creating its schema if needed.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS release_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		version TEXT NOT NULL,
		stage TEXT NOT NULL DEFAULT '',
		exit_code INTEGER,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_release_events_run_id ON release_events(run_id);
	CREATE INDEX IF NOT EXISTS idx_release_events_version_type ON release_events(version, event_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a record to the store.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	var code sql.NullInt64
	if rec.ExitCode != nil {
		code = sql.NullInt64{Int64: int64(*rec.ExitCode), Valid: true}
	}
	payload := rec.Payload
	if payload == nil {
		payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO release_events (run_id, event_type, version, stage, exit_code, timestamp, payload) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.RunID, rec.Type, rec.Version, rec.Stage, code, ts.UnixMilli(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// ByRun returns all records of a release run in insertion order.
func (s *SQLiteStore) ByRun(ctx context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// LatestFinished returns the last ReleaseFinished record for version.
func (s *SQLiteStore) LatestFinished(ctx context.Context, version string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		selectColumns+" WHERE version = ? AND event_type = ? ORDER BY id DESC LIMIT 1",
		version, TypeReleaseFinished,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec    Record
		code   sql.NullInt64
		millis int64
	)
	err := sc.Scan(&rec.ID, &rec.RunID, &rec.Type, &rec.Version, &rec.Stage, &code, &millis, &rec.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scan event: %w", err)
	}
	if code.Valid {
		c := int(code.Int64)
		rec.ExitCode = &c
	}
	rec.Timestamp = time.UnixMilli(millis)
	return rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
