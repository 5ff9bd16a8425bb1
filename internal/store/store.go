package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SnapshotTTL is how long a saved attempt snapshot stays resumable.
const SnapshotTTL = 24 * time.Hour

// Store wraps the SQLite database and hands out repositories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshots returns the attempt snapshot repository with the standard TTL.
func (s *Store) Snapshots() *SnapshotRepo {
	return &SnapshotRepo{db: s.db, ttl: SnapshotTTL, now: s.now}
}

// Results returns the attempt-history repository.
func (s *Store) Results() *ResultRepo {
	return &ResultRepo{db: s.db, now: s.now}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			quiz_id  TEXT PRIMARY KEY,
			data     TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id      TEXT NOT NULL,
			quiz_id         TEXT NOT NULL,
			score           INTEGER NOT NULL,
			total           INTEGER NOT NULL,
			passed          INTEGER NOT NULL,
			duration_secs   INTEGER NOT NULL,
			objectives_json TEXT NOT NULL DEFAULT '{}',
			taken_at        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_quiz ON results(quiz_id, taken_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QPREP_DB environment variable
// 2. $XDG_DATA_HOME/qprep/qprep.db
// 3. ~/.local/share/qprep/qprep.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QPREP_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "qprep", "qprep.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
