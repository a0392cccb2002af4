package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// Ensure SQLiteStore implements model.SeenStore.
var _ model.SeenStore = (*SQLiteStore)(nil)

// Entry is one row of the seen table.
type Entry struct {
	Key       string
	URL       string
	CreatedAt time.Time
}

// SQLiteStore persists fingerprints of previously processed listings. Entries
// are append-only; retention is out of scope.
type SQLiteStore struct {
	db *sql.DB
}

// MakeKey returns the dedup fingerprint for a job. The URL alone identifies a
// listing whenever it is non-empty; otherwise a composite of source, company,
// title, and location is hashed instead.
func MakeKey(job model.Job) string {
	if job.URL != "" {
		sum := sha256.Sum256([]byte(job.URL))
		return hex.EncodeToString(sum[:])
	}
	composite := strings.Join([]string{
		job.Source,
		strings.ToLower(job.Company),
		strings.ToLower(job.Title),
		strings.ToLower(job.Location),
	}, "|")
	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen (
		key        TEXT PRIMARY KEY,
		url        TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// IsNew returns true if no entry exists for the job's fingerprint. It is
// read-only and safe to call repeatedly for the same job within one cycle.
func (s *SQLiteStore) IsNew(job model.Job) (bool, error) {
	key := MakeKey(job)
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen WHERE key = ?", key).Scan(&exists)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", key, err)
	}
	return false, nil
}

// Add records the fingerprints of all given jobs. Inserting an already
// present fingerprint is a no-op, so Add is idempotent and safe when
// multiple processes share one store.
func (s *SQLiteStore) Add(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seen insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO seen (key, url) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing seen insert: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		if _, err := stmt.Exec(MakeKey(job), job.URL); err != nil {
			return fmt.Errorf("inserting seen entry for %s: %w", job.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seen insert: %w", err)
	}
	return nil
}

// Count returns the number of recorded fingerprints.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen entries: %w", err)
	}
	return count, nil
}

// IsEmpty returns true if the store has no entries.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	count, err := s.Count()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT key, url, created_at FROM seen ORDER BY created_at DESC, key LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing seen entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.URL, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning seen entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
