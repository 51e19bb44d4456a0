package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/rfcli"
)

// Compile-time interface verification.
var _ rfcli.CacheStore = (*CacheStore)(nil)

// CacheStore implements rfcli.CacheStore using SQLite. Each entry is a
// single row, so replacing one is atomic.
type CacheStore struct {
	db *DB
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

// SaveEntry inserts or replaces an entry.
func (s *CacheStore) SaveEntry(ctx context.Context, entry *rfcli.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	content := entry.Content
	if content == nil {
		content = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (number, kind, content, hash, size, created_at, accessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number, kind) DO UPDATE SET
			content = excluded.content,
			hash = excluded.hash,
			size = excluded.size,
			created_at = excluded.created_at,
			accessed_at = excluded.accessed_at
	`, entry.Number, string(entry.Kind), content, entry.Hash, entry.Size,
		entry.CreatedAt.UnixNano(), entry.AccessedAt.UnixNano())
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "save cache entry %d/%s", entry.Number, entry.Kind)
	}
	return nil
}

// FindEntry retrieves an entry with its content.
func (s *CacheStore) FindEntry(ctx context.Context, key rfcli.CacheKey) (*rfcli.CacheEntry, error) {
	var entry rfcli.CacheEntry
	var kind string
	var createdAt, accessedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT number, kind, content, hash, size, created_at, accessed_at
		FROM cache_entries
		WHERE number = ? AND kind = ?
	`, key.Number, string(key.Kind)).Scan(&entry.Number, &kind, &entry.Content, &entry.Hash,
		&entry.Size, &createdAt, &accessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rfcli.Errorf(rfcli.ENOTFOUND, "cache entry %d/%s not found", key.Number, key.Kind)
	}
	if err != nil {
		return nil, err
	}

	entry.Kind = rfcli.CacheKind(kind)
	entry.CreatedAt = unixNano(createdAt)
	entry.AccessedAt = unixNano(accessedAt)
	return &entry, nil
}

// TouchEntry updates an entry's access time.
func (s *CacheStore) TouchEntry(ctx context.Context, key rfcli.CacheKey, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE cache_entries SET accessed_at = ? WHERE number = ? AND kind = ?",
		at.UnixNano(), key.Number, string(key.Kind))
	return err
}

// DeleteEntry removes an entry.
func (s *CacheStore) DeleteEntry(ctx context.Context, key rfcli.CacheKey) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE number = ? AND kind = ?", key.Number, string(key.Kind))
	return err
}

// DeleteEntries removes every entry for an RFC.
func (s *CacheStore) DeleteEntries(ctx context.Context, number int) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE number = ?", number)
	return err
}

// ListEntries returns entry metadata, least recently accessed first.
func (s *CacheStore) ListEntries(ctx context.Context) ([]*rfcli.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, kind, hash, size, created_at, accessed_at
		FROM cache_entries
		ORDER BY accessed_at ASC, number ASC, kind ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*rfcli.CacheEntry
	for rows.Next() {
		var entry rfcli.CacheEntry
		var kind string
		var createdAt, accessedAt int64
		if err := rows.Scan(&entry.Number, &kind, &entry.Hash, &entry.Size, &createdAt, &accessedAt); err != nil {
			return nil, err
		}
		entry.Kind = rfcli.CacheKind(kind)
		entry.CreatedAt = unixNano(createdAt)
		entry.AccessedAt = unixNano(accessedAt)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
