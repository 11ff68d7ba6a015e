// Package ledger records sync runs in a SQLite database.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alnah/go-cheatsync/internal/fileutil"
)

// Sentinel errors for ledger operations.
var (
	ErrNotFound  = errors.New("no recorded run")
	ErrEmptyPath = errors.New("ledger path cannot be empty")
)

// Status is the outcome of one recorded sync unit.
type Status string

const (
	StatusSynced    Status = "synced"
	StatusUnchanged Status = "unchanged" // same content as the last successful run
	StatusFailed    Status = "failed"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// timeLayout has fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one sync unit run.
type Entry struct {
	ID         string
	Source     string // "notion" or "obsidian"
	Unit       string // page ID or tag
	Output     string
	Sections   int
	Skipped    int
	Digest     string
	Status     Status
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store is a ledger backed by one SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the ledger at path, creating parent directories.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPermissions); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			unit TEXT NOT NULL,
			output TEXT,
			sections INTEGER,
			skipped INTEGER,
			digest TEXT,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_unit ON runs(source, unit, finished_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Record stores e, assigning an ID when it has none.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, unit, output, sections, skipped, digest, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Source, e.Unit, e.Output, e.Sections, e.Skipped, e.Digest, string(e.Status), e.Error,
		e.StartedAt.UTC().Format(timeLayout), e.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// LastSuccess returns the most recent non-failed run of a unit.
func (s *Store) LastSuccess(ctx context.Context, source, unit string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, unit, output, sections, skipped, digest, status, error, started_at, finished_at
		FROM runs
		WHERE source = ? AND unit = ? AND status != ?
		ORDER BY finished_at DESC
		LIMIT 1
	`, source, unit, string(StatusFailed))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, source, unit)
	}
	return e, err
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, unit, output, sections, skipped, digest, status, error, started_at, finished_at
		FROM runs
		ORDER BY finished_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Unchanged reports whether content matches the last successful run of
// the unit and that run's output file still exists.
func (s *Store) Unchanged(ctx context.Context, source, unit, content string) (bool, error) {
	last, err := s.LastSuccess(ctx, source, unit)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return last.Digest == Digest(content) && fileutil.FileExists(last.Output), nil
}

// Digest returns the hex SHA-256 of a rendered cheatsheet.
func Digest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                 Entry
		status            string
		output, digest    sql.NullString
		errText           sql.NullString
		sections, skipped sql.NullInt64
		started, finished string
	)
	if err := row.Scan(&e.ID, &e.Source, &e.Unit, &output, &sections, &skipped, &digest, &status, &errText, &started, &finished); err != nil {
		return nil, err
	}

	e.Output = output.String
	e.Sections = int(sections.Int64)
	e.Skipped = int(skipped.Int64)
	e.Digest = digest.String
	e.Status = Status(status)
	e.Error = errText.String

	var err error
	if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if e.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &e, nil
}
