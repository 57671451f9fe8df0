// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an optional sqlite ledger of conversion runs so
// users can see what was converted, where it went, and why runs failed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2yaml/pkg/types"
)

// Status is the outcome of a recorded run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record describes one conversion run.
type Record struct {
	ID         string                  `json:"id" yaml:"id"`
	StartedAt  time.Time               `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time               `json:"finished_at" yaml:"finished_at"`
	InputPath  string                  `json:"input_path" yaml:"input_path"`
	OutputPath string                  `json:"output_path" yaml:"output_path"`
	Mode       types.Mode              `json:"mode" yaml:"mode"`
	Backend    types.ConversionBackend `json:"backend" yaml:"backend"`
	// Bytes is the size of the written output.
	Bytes     int             `json:"bytes" yaml:"bytes"`
	Status    Status          `json:"status" yaml:"status"`
	ErrorKind types.ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration returns how long the run took.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// DefaultPath returns ~/.local/state/pdf2yaml/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "pdf2yaml", "history.db"), nil
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_path TEXT NOT NULL,
			output_path TEXT,
			mode TEXT NOT NULL,
			backend TEXT,
			bytes INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error_kind TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add stores rec and returns it with its ID filled in when it was empty.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, input_path, output_path, mode, backend, bytes, status, error_kind, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.FinishedAt.UTC().Format(timeLayout),
		rec.InputPath,
		rec.OutputPath,
		string(rec.Mode),
		string(rec.Backend),
		rec.Bytes,
		string(rec.Status),
		string(rec.ErrorKind),
		rec.Error,
	)
	if err != nil {
		return rec, fmt.Errorf("recording run %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Recent returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_path, output_path, mode, backend, bytes, status, error_kind, error
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec                 Record
			started, finished   string
			output, backend     sql.NullString
			mode, status        string
			errorKind, errorMsg sql.NullString
		)
		if err := rows.Scan(&rec.ID, &started, &finished, &rec.InputPath, &output, &mode, &backend,
			&rec.Bytes, &status, &errorKind, &errorMsg); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if rec.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at of run %s: %w", rec.ID, err)
		}
		if rec.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at of run %s: %w", rec.ID, err)
		}
		rec.OutputPath = output.String
		rec.Mode = types.Mode(mode)
		rec.Backend = types.ConversionBackend(backend.String)
		rec.Status = Status(status)
		rec.ErrorKind = types.ErrorKind(errorKind.String)
		rec.Error = errorMsg.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
