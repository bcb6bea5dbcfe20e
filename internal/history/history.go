// Package history persists a record of every execution run in SQLite so the
// CLI can show recent activity and per-language statistics. The workspace
// itself never depends on this store; it is an append-mostly side channel.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// RunRecord is one completed execution.
type RunRecord struct {
	ID        int64
	Path      string
	Language  types.Language
	Success   bool
	Duration  time.Duration
	CreatedAt time.Time
}

// LanguageStat aggregates runs for one language.
type LanguageStat struct {
	Language types.Language
	Runs     int
	Failures int
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the history database at path. Use ":memory:"
// for tests.
func NewStore(path string) (*Store, error) {
	logging.Store("Initializing history store at %s", path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			path        TEXT NOT NULL,
			language    TEXT NOT NULL,
			success     INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_language ON runs(language);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`)
	return err
}

// RecordRun appends one run. Implements the gateway's Recorder interface.
func (s *Store) RecordRun(path string, language types.Language, success bool, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO runs (path, language, success, duration_ms) VALUES (?, ?, ?, ?)",
		path, string(language), boolToInt(success), duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	logging.StoreDebug("Recorded run: %s %s success=%v", path, language, success)
	return nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		"SELECT id, path, language, success, duration_ms, created_at FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r          RunRecord
			success    int
			durationMS int64
			langTag    string
		)
		if err := rows.Scan(&r.ID, &r.Path, &langTag, &success, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Language = types.Language(langTag)
		r.Success = success != 0
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// LanguageStats aggregates run and failure counts per language.
func (s *Store) LanguageStats() ([]LanguageStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT language, COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)
		FROM runs GROUP BY language ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var out []LanguageStat
	for rows.Next() {
		var (
			st      LanguageStat
			langTag string
		)
		if err := rows.Scan(&langTag, &st.Runs, &st.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		st.Language = types.Language(langTag)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
