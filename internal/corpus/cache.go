package corpus

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrCacheMiss reports that no cached corpus exists for the URL.
var ErrCacheMiss = errors.New("corpus cache miss")

// Cache is a small SQLite-backed store of previously fetched corpora,
// keyed by URL. It lets the viewer come up offline after one successful
// retrieval.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS corpus_cache (
	url        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached corpus body and fetch time for a URL.
func (c *Cache) Get(url string) (string, time.Time, error) {
	var body string
	var fetchedAt int64
	err := c.db.QueryRow(
		`SELECT body, fetched_at FROM corpus_cache WHERE url = ?`, url,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return body, time.Unix(fetchedAt, 0), nil
}

// Put stores (or replaces) the cached corpus body for a URL.
func (c *Cache) Put(url, body string) error {
	_, err := c.db.Exec(
		`INSERT INTO corpus_cache (url, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		url, body, time.Now().Unix(),
	)
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
