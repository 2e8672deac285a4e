// Package history persists past check runs in a local SQLite
// database so regressions across runs can be spotted.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// Entry is one recorded check run.
type Entry struct {
	RunID     string             `json:"run_id"`
	Workspace string             `json:"workspace"`
	StartedAt time.Time          `json:"started_at"`
	Verdict   core.Verdict       `json:"verdict"`
	Issues    int                `json:"issues"`
	Warnings  int                `json:"warnings"`
	Stats     core.RunStatistics `json:"statistics"`
}

// Store is a SQLite-backed history of check runs.
type Store struct {
	dbPath string
	db     *sql.DB
}

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{dbPath: dbPath, db: db}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// Table doesn't exist yet, run initial migration
		version = 0
	}
	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return fmt.Errorf("applying migration v1: %w", err)
		}
	}
	return nil
}

// Record inserts one check run.
func (s *Store) Record(ctx context.Context, e Entry) error {
	statsJSON, err := json.Marshal(e.Stats)
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, workspace, started_at, verdict, issues, warnings, statistics)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Workspace, e.StartedAt.UTC().Format(time.RFC3339Nano),
		string(e.Verdict), e.Issues, e.Warnings, string(statsJSON))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace, started_at, verdict, issues, warnings, statistics
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			startedAt string
			verdict   string
			statsJSON string
		)
		if err := rows.Scan(&e.RunID, &e.Workspace, &startedAt, &verdict, &e.Issues, &e.Warnings, &statsJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		e.Verdict = core.Verdict(verdict)
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(statsJSON), &e.Stats); err != nil {
			return nil, fmt.Errorf("decoding run statistics: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return entries, nil
}
