// Package db manages the SQLite-backed key-value storage that holds the
// serialized post collection.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS storage (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := d.db.Exec(stmt); err != nil {
		return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, stmt)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Key-value access
// ---------------------------------------------------------------------------

// GetItem returns the value for key, or ("", false, nil) if not set.
func (d *DB) GetItem(key string) (string, bool, error) {
	var val string
	err := d.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetItem: %w", err)
	}
	return val, true, nil
}

// SetItem upserts a key-value pair, replacing any prior value.
func (d *DB) SetItem(key, value string) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO storage (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return fmt.Errorf("SetItem: %w", err)
	}
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (d *DB) RemoveItem(key string) error {
	if _, err := d.db.Exec(`DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("RemoveItem: %w", err)
	}
	return nil
}
