// Package store is the relational persistence layer. A Store wraps a
// *sql.DB and is constructed once in main, then injected into handlers;
// tests build their own isolated throwaway instances.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Sentinel errors surfaced to handlers. Wrap with %w, branch with
// errors.Is.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken means a user with that email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at the given path, applies connection
// pragmas, verifies the connection and creates missing tables.
func Open(dataSourceName string) (*Store, error) {
	// WAL for concurrent readers, a busy timeout instead of immediate
	// SQLITE_BUSY, and enforced foreign keys.
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	dsn := dataSourceName + sep +
		"_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataSourceName, err)
	}

	// SQLite writes through a single file; one connection avoids lock
	// contention in the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dataSourceName, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	department TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'member'
);

CREATE TABLE IF NOT EXISTS photos (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	author_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	place TEXT NOT NULL,
	img_url TEXT NOT NULL,
	created_on TEXT NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	photo_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	FOREIGN KEY(photo_id) REFERENCES photos(id),
	FOREIGN KEY(author_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS votes (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	photo_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	value INTEGER NOT NULL DEFAULT 1,
	FOREIGN KEY(photo_id) REFERENCES photos(id),
	FOREIGN KEY(user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_photos_author_id ON photos (author_id);
CREATE INDEX IF NOT EXISTS idx_comments_photo_id ON comments (photo_id);
CREATE INDEX IF NOT EXISTS idx_votes_photo_id ON votes (photo_id);
`

// migrate creates tables and indexes if they do not exist yet.
// Note: no UNIQUE(photo_id, user_id) on votes — repeat voting by the
// same user is part of the model, each vote counts.
func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation detects SQLite UNIQUE constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
