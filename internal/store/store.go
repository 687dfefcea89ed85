package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pivotcast/internal/logger"
)

// DefaultMaxAge is the freshness window for cached summaries.
const DefaultMaxAge = 24 * time.Hour

// Store is the SQLite-backed summary cache, keyed by a stable hash of the
// article URL. It is best-effort: lookup and write failures degrade to cache
// misses and are never fatal to the pipeline.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the cache database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "articles.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS article_cache (
		url_hash TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		summary TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_url ON article_cache(url);
	CREATE INDEX IF NOT EXISTS idx_fetched_at ON article_cache(fetched_at);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the on-disk location of the cache database.
func (s *Store) Path() string {
	return s.path
}

// hashURL produces the deterministic cache key for a URL.
func hashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// GetSummary returns the cached summary for url if one exists and is newer
// than maxAge. A stale entry is treated as a miss and left in place for a
// later put to overwrite. Storage errors are logged and reported as misses.
func (s *Store) GetSummary(url string, maxAge time.Duration) (string, bool) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var summary string
	err := s.db.QueryRow(
		"SELECT summary FROM article_cache WHERE url_hash = ? AND fetched_at > ?",
		hashURL(url), cutoff,
	).Scan(&summary)

	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("Cache lookup failed", "url", url, "error", err.Error())
		return "", false
	}

	logger.Debug("Cache hit", "url", url)
	return summary, true
}

// PutSummary upserts the summary for url, stamping it with the current time.
// Failures are logged and swallowed; caching is never fatal.
func (s *Store) PutSummary(url, summary string) {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO article_cache (url_hash, url, summary, fetched_at) VALUES (?, ?, ?, ?)",
		hashURL(url), url, summary, time.Now().UTC(),
	)
	if err != nil {
		logger.Warn("Failed to cache summary", "url", url, "error", err.Error())
	}
}

// EntryCount reports the number of cached entries, fresh or stale.
func (s *Store) EntryCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM article_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}
