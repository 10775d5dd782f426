// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists sync run outcomes in a local SQLite
// database, one row per run plus one per processed document.
// See docs/ARCHITECTURE § History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vault-sync/pkg/types"
)

const dbFile = "history.db"

// Store manages the run-history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// Run is one recorded batch run.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Synced    int       `json:"synced"`
	Failed    int       `json:"failed"`
}

// Document is one recorded per-document outcome.
type Document struct {
	RunID      int64                `json:"run_id"`
	Name       string               `json:"name"`
	Status     types.DocumentStatus `json:"status"`
	OutputPath string               `json:"output_path,omitempty"`
	Images     int                  `json:"images"`
	Error      string               `json:"error,omitempty"`
}

// NewStore opens or creates the history database at
// cfg.DataDir/history.db, creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			synced INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_documents (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			output_path TEXT,
			images INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_documents_run_id ON run_documents(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one run and its documents in a single transaction,
// returning the new run ID.
func (s *Store) Record(ctx context.Context, startedAt time.Time, synced, failed int, docs []Document) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, synced, failed) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), synced, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	for _, d := range docs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_documents (run_id, name, status, output_path, images, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, d.Name, string(d.Status), d.OutputPath, d.Images, d.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting document %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists the most recent runs, newest first. A non-positive limit
// uses the configured default.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, synced, failed FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Synced, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunDocuments lists the per-document outcomes of one run.
func (s *Store) RunDocuments(ctx context.Context, runID int64) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, status, output_path, images, error
		 FROM run_documents WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", runID, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var status, outputPath, errText sql.NullString
		if err := rows.Scan(&d.RunID, &d.Name, &status, &outputPath, &d.Images, &errText); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Status = types.DocumentStatus(status.String)
		d.OutputPath = outputPath.String
		d.Error = errText.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
