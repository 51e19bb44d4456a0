package rfcli

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
)

// CacheKind identifies what a cache entry holds.
type CacheKind string

// CacheKind constants.
const (
	KindRaw  CacheKind = "raw"
	KindTLDR CacheKind = "tldr"
)

// Valid reports whether k is a known kind.
func (k CacheKind) Valid() bool {
	return k == KindRaw || k == KindTLDR
}

// CacheKey addresses a single cache entry.
type CacheKey struct {
	Number int
	Kind   CacheKind
}

// CacheEntry is a cached RFC body or derived TLDR.
type CacheEntry struct {
	Number     int       `json:"number"`
	Kind       CacheKind `json:"kind"`
	Content    []byte    `json:"content"`
	Hash       string    `json:"hash"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
	AccessedAt time.Time `json:"accessedAt"`
}

// Key returns the entry's cache key.
func (e *CacheEntry) Key() CacheKey {
	return CacheKey{Number: e.Number, Kind: e.Kind}
}

// Validate returns an error if the entry contains invalid fields.
func (e *CacheEntry) Validate() error {
	if e.Number <= 0 {
		return Errorf(EINVALID, "cache entry rfc number must be positive, got %d", e.Number)
	}
	if !e.Kind.Valid() {
		return Errorf(EINVALID, "unknown cache kind %q", e.Kind)
	}
	return nil
}

// HashContent computes the xxHash of content as a hex string.
func HashContent(content []byte) string {
	var b [8]byte
	h := xxhash.Sum64(content)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

// ContentCache stores fetched RFC bodies and derived TLDRs.
type ContentCache interface {
	// Put stores content, replacing any previous entry atomically.
	// Returns EIO if the entry cannot be persisted.
	Put(ctx context.Context, number int, kind CacheKind, content []byte) (*CacheEntry, error)

	// Get returns the entry. The bool result is false on a miss, which
	// includes entries older than the cache's time-to-live.
	Get(ctx context.Context, number int, kind CacheKind) (*CacheEntry, bool, error)

	// Invalidate removes a single entry. Removing a missing entry is not an error.
	Invalidate(ctx context.Context, number int, kind CacheKind) error

	// InvalidateAll removes every entry for an RFC.
	InvalidateAll(ctx context.Context, number int) error
}

// CacheStats summarizes cache occupancy.
type CacheStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// CacheStore persists cache entries. Implementations must make SaveEntry
// atomic: readers see either the previous entry or the new one.
type CacheStore interface {
	// SaveEntry inserts or replaces the entry for its key.
	SaveEntry(ctx context.Context, entry *CacheEntry) error

	// FindEntry retrieves an entry with its content.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntry(ctx context.Context, key CacheKey) (*CacheEntry, error)

	// TouchEntry records an access time for an entry.
	TouchEntry(ctx context.Context, key CacheKey, at time.Time) error

	// DeleteEntry removes an entry. Deleting a missing entry is not an error.
	DeleteEntry(ctx context.Context, key CacheKey) error

	// DeleteEntries removes every entry for an RFC.
	DeleteEntries(ctx context.Context, number int) error

	// ListEntries returns entry metadata without content, least recently
	// accessed first.
	ListEntries(ctx context.Context) ([]*CacheEntry, error)
}
