// Package storage persists analysis artifacts in a local SQLite cache so
// repeated runs over unchanged sources skip the engine and extraction
// entirely. The cache key is the content digest plus everything that
// influences the output: engine, source format, and tool version.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"cobscan/internal/logging"
)

// DB represents the cache database connection
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the SQLite cache at <dir>/cobscan.db
func Open(dir string, logger *logging.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "cobscan.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: dbPath}
	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func (db *DB) initializeSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS artifact_cache (
			content_sha256 TEXT NOT NULL,
			source_format  TEXT NOT NULL,
			engine         TEXT NOT NULL,
			tool_version   TEXT NOT NULL,
			run_id         TEXT NOT NULL,
			payload        BLOB NOT NULL,
			created_at     TEXT NOT NULL,
			PRIMARY KEY (content_sha256, source_format, engine, tool_version)
		)
	`)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.dbPath
}
