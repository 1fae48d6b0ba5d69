// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records conversion runs in a SQLite database so past batches
// can be inspected without re-reading output directories. Ledger writes are
// best effort: a recording failure is reported as a warning by callers and
// never fails the conversion itself.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2md/pkg/types"
)

const dbFile = "runs.db"

// Store manages the conversion-run SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the ledger database at stateDir/runs.db,
// creating the schema if needed.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = ".pdf2md"
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", stateDir, err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS runs (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		source_path TEXT NOT NULL,
		output_path TEXT,
		mode TEXT NOT NULL,
		pages INTEGER,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER,
		error TEXT
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record appends one conversion run.
func (s *Store) Record(ctx context.Context, run types.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source_path, output_path, mode, pages, status, started_at, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.SourcePath,
		run.OutputPath,
		string(run.Mode),
		run.Pages,
		string(run.Status),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run for %s: %w", run.SourcePath, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit uses
// the store default.
func (s *Store) List(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, output_path, mode, pages, status, started_at, duration_ms, error
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			run        types.Run
			mode       string
			status     string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.SourcePath, &run.OutputPath, &mode, &run.Pages, &status, &startedAt, &durationMS, &run.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Mode = types.Mode(mode)
		run.Status = types.RunStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			run.StartedAt = t
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
