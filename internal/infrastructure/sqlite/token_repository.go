package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const tokenKey = "auth_token"

// TokenRepository persists the bearer token in a single-row key-value
// table so the session survives process restarts.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository opens (creating if needed) the SQLite database at
// the given path and ensures the kv schema exists.
func NewTokenRepository(dbPath string) (*TokenRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create token db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open token db: %w", err)
	}

	// WAL keeps the slot readable while a write is in progress.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// A single connection is plenty for one key.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(),
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &TokenRepository{db: db}, nil
}

func (r *TokenRepository) Save(token string) error {
	_, err := r.db.ExecContext(context.Background(),
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		tokenKey, token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the held token, or "" when none is stored.
func (r *TokenRepository) Load() (string, error) {
	var token string
	err := r.db.QueryRowContext(context.Background(),
		`SELECT value FROM kv WHERE key = ?`, tokenKey,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (r *TokenRepository) Clear() error {
	_, err := r.db.ExecContext(context.Background(),
		`DELETE FROM kv WHERE key = ?`, tokenKey)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Close() error {
	return r.db.Close()
}
