package pubsite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database that remembers document fingerprints and
// past builds between runs.
type Store struct {
	db *sql.DB
}

// BuildRecord is one finished build.
type BuildRecord struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Pages     int
	Rewritten int
	Changed   int
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    path TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    pages INTEGER NOT NULL,
    rewritten INTEGER NOT NULL,
    changed INTEGER NOT NULL
);
`)
	return err
}

// SyncDocuments stores the current fingerprint of every document and
// returns the sorted paths that are new or changed since the last sync.
// Documents no longer present are forgotten.
func (s *Store) SyncDocuments(fingerprints map[string]string, now time.Time) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	known := make(map[string]string)
	rows, err := tx.Query(`SELECT path, fingerprint FROM documents`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path, fp string
		if err := rows.Scan(&path, &fp); err != nil {
			rows.Close()
			return nil, err
		}
		known[path] = fp
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var changed []string
	stamp := now.UTC().Format(time.RFC3339)
	for path, fp := range fingerprints {
		if known[path] == fp {
			continue
		}
		changed = append(changed, path)
		if _, err := tx.Exec(`INSERT OR REPLACE INTO documents (path, fingerprint, updated_at) VALUES (?, ?, ?)`, path, fp, stamp); err != nil {
			return nil, fmt.Errorf("save fingerprint %s: %w", path, err)
		}
	}
	for path := range known {
		if _, ok := fingerprints[path]; ok {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	sort.Strings(changed)
	return changed, nil
}

// RecordBuild saves a finished build.
func (s *Store) RecordBuild(b BuildRecord) error {
	_, err := s.db.Exec(`INSERT INTO builds (id, started_at, duration_ms, pages, rewritten, changed) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.StartedAt.UnixNano(), b.Duration.Milliseconds(), b.Pages, b.Rewritten, b.Changed)
	return err
}

// LastBuild returns the most recent build, or sql.ErrNoRows when there
// has been none.
func (s *Store) LastBuild() (BuildRecord, error) {
	var b BuildRecord
	var started, ms int64
	err := s.db.QueryRow(`SELECT id, started_at, duration_ms, pages, rewritten, changed FROM builds ORDER BY started_at DESC LIMIT 1`).
		Scan(&b.ID, &started, &ms, &b.Pages, &b.Rewritten, &b.Changed)
	if err != nil {
		return BuildRecord{}, err
	}
	b.StartedAt = time.Unix(0, started).UTC()
	b.Duration = time.Duration(ms) * time.Millisecond
	return b, nil
}
