// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores raw model responses in a local SQLite database so
// repeated runs over the same deck do not repeat paid inference calls.
// Only transport responses are cached; findings are never persisted.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "responses.db"

// Store is a SQLite-backed response cache keyed by SHA-256(model, prompt).
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the cached response for (model, prompt). A read error counts
// as a miss; the caller falls through to a live call.
func (s *Store) Get(model, prompt string) (string, bool) {
	var response string
	err := s.db.QueryRow(
		`SELECT response FROM responses WHERE key = ?`, key(model, prompt),
	).Scan(&response)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(os.Stderr, "warning: cache read failed: %v\n", err)
		}
		return "", false
	}
	return response, true
}

// Put records a response for (model, prompt), replacing any earlier entry.
func (s *Store) Put(model, prompt, response string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO responses (key, model, response, created_at) VALUES (?, ?, ?, ?)`,
		key(model, prompt), model, response, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// key derives the cache key from model and prompt.
func key(model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return fmt.Sprintf("%x", h.Sum(nil))
}
