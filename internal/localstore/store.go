// Package localstore durably caches the serialized project document on the
// client so a process restart recovers the last-known state without any
// network round trip.
package localstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// cacheKey is the fixed application key the document is stored under.
// The store always holds a complete serialized document or nothing.
const cacheKey = "restaurant-project-storage"

const schema = `
CREATE TABLE IF NOT EXISTS project_cache (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// Store is a single-row key-value cache backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the cache database (and its parent directory) if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the full serialized document under the fixed key. It is
// fire-and-forget from the caller's point of view: failures are logged,
// not returned, so a broken cache never blocks an in-memory mutation.
func (s *Store) Save(doc *domain.ProjectDocument) {
	b, err := json.Marshal(doc)
	if err != nil {
		log.Printf("[localstore] marshal failed: %v", err)
		return
	}

	const q = `
INSERT INTO project_cache (key, payload, updated_at)
VALUES (?, ?, datetime('now'))
ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at;`
	if _, err := s.db.Exec(q, cacheKey, string(b)); err != nil {
		log.Printf("[localstore] save failed: %v", err)
	}
}

// Load returns the cached document, or a fresh default document when the
// cache is empty or its payload no longer deserializes. A corrupt cache has
// no recovery path, so the fallback is repair, not an error.
func (s *Store) Load() *domain.ProjectDocument {
	const q = `SELECT payload FROM project_cache WHERE key = ?;`

	var payload string
	err := s.db.QueryRow(q, cacheKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewDefaultDocument()
	}
	if err != nil {
		log.Printf("[localstore] load failed, using defaults: %v", err)
		return domain.NewDefaultDocument()
	}

	var doc domain.ProjectDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		log.Printf("[localstore] %v: %v", domain.ErrCorruptLocalCache, err)
		return domain.NewDefaultDocument()
	}
	if doc.ID == "" || !doc.CurrentPhase.IsValid() {
		log.Printf("[localstore] %v: schema mismatch", domain.ErrCorruptLocalCache)
		return domain.NewDefaultDocument()
	}
	return &doc
}

// Clear removes the cached document.
func (s *Store) Clear() {
	if _, err := s.db.Exec(`DELETE FROM project_cache WHERE key = ?;`, cacheKey); err != nil {
		log.Printf("[localstore] clear failed: %v", err)
	}
}
