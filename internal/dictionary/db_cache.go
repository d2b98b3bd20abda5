package dictionary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// CacheRecord is a row of the dictionary_cache table.
type CacheRecord struct {
	Term      string          `db:"term"`
	Language  string          `db:"language"`
	Entries   json.RawMessage `db:"entries"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// DBCache stores looked up entries in MySQL.
type DBCache struct {
	db       *sqlx.DB
	language string
}

var _ Cache = (*DBCache)(nil)

// NewDBCache creates a new DBCache for the entries of one language.
func NewDBCache(db *sqlx.DB, language string) *DBCache {
	return &DBCache{db: db, language: language}
}

// Get returns the cached entries of the term.
func (c *DBCache) Get(ctx context.Context, term string) ([]Entry, bool, error) {
	var record CacheRecord
	err := c.db.GetContext(ctx, &record,
		"SELECT * FROM dictionary_cache WHERE language = ? AND term = ?",
		c.language, term)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db.GetContext(dictionary_cache) > %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(record.Entries, &entries); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return entries, true, nil
}

// Put inserts or updates the entries of the term.
func (c *DBCache) Put(ctx context.Context, term string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	contents, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO dictionary_cache (language, term, entries)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE entries = VALUES(entries)`,
		c.language, term, contents)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert dictionary_cache) > %w", err)
	}
	return nil
}
