package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Key identifies one cached artifact. Any change to the source bytes,
// the selected format, the engine, or the tool itself produces a
// different key, so stale artifacts can never be served.
type Key struct {
	ContentSha256 string
	SourceFormat  string
	Engine        string
	ToolVersion   string
}

// Cache stores serialized artifacts, compressed at rest.
type Cache struct {
	db      *DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCache creates a cache over an open database.
func NewCache(db *DB) (*Cache, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{db: db, encoder: enc, decoder: dec}, nil
}

// Close releases the compressors and the underlying database.
func (c *Cache) Close() error {
	c.encoder.Close()
	c.decoder.Close()
	return c.db.Close()
}

// Get returns the cached artifact bytes for key, or ok=false on a miss.
func (c *Cache) Get(key Key) ([]byte, bool, error) {
	var payload []byte
	err := c.db.conn.QueryRow(`
		SELECT payload FROM artifact_cache
		WHERE content_sha256 = ? AND source_format = ? AND engine = ? AND tool_version = ?
	`, key.ContentSha256, key.SourceFormat, key.Engine, key.ToolVersion).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}

	decoded, err := c.decoder.DecodeAll(payload, nil)
	if err != nil {
		// A corrupt row is a miss, not a failure: the analyzer recomputes.
		return nil, false, nil
	}
	return decoded, true, nil
}

// Put stores artifact bytes under key.
func (c *Cache) Put(key Key, artifact []byte) error {
	compressed := c.encoder.EncodeAll(artifact, nil)
	_, err := c.db.conn.Exec(`
		INSERT OR REPLACE INTO artifact_cache
			(content_sha256, source_format, engine, tool_version, run_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key.ContentSha256, key.SourceFormat, key.Engine, key.ToolVersion,
		uuid.New().String(), compressed, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries       int64
	PayloadBytes  int64
	OldestCreated string
	NewestCreated string
}

// Stats reports entry count and stored payload size.
func (c *Cache) Stats() (*Stats, error) {
	var s Stats
	var oldest, newest sql.NullString
	err := c.db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(payload)), 0), MIN(created_at), MAX(created_at)
		FROM artifact_cache
	`).Scan(&s.Entries, &s.PayloadBytes, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("cache stats failed: %w", err)
	}
	s.OldestCreated = oldest.String
	s.NewestCreated = newest.String
	return &s, nil
}

// Clear removes every cached artifact and returns the number removed.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.conn.Exec(`DELETE FROM artifact_cache`)
	if err != nil {
		return 0, fmt.Errorf("cache clear failed: %w", err)
	}
	return res.RowsAffected()
}
