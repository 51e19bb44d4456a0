// Package lru implements the content cache policy: a byte-bounded,
// least-recently-used cache of RFC bodies and TLDRs with lazy TTL expiry,
// persisted through an rfcli.CacheStore.
package lru

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

var _ rfcli.ContentCache = (*Cache)(nil)

// Cache implements rfcli.ContentCache. Recency and sizes are tracked in
// memory; content lives in the store.
type Cache struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	store    rfcli.CacheStore
	maxBytes int64
	ttl      time.Duration

	mu    sync.Mutex
	order *simplelru.LRU[rfcli.CacheKey, int64]
	bytes int64
	pins  map[rfcli.CacheKey]int

	locks *numberLocks
}

// NewCache creates a cache over store. A zero maxBytes disables the size
// bound and a zero ttl disables expiry.
func NewCache(store rfcli.CacheStore, maxBytes int64, ttl time.Duration) *Cache {
	// Capacity is enforced in bytes, not entries.
	order, err := simplelru.NewLRU[rfcli.CacheKey, int64](math.MaxInt, nil)
	if err != nil {
		panic(err)
	}
	return &Cache{
		Now:      time.Now,
		store:    store,
		maxBytes: maxBytes,
		ttl:      ttl,
		order:    order,
		pins:     make(map[rfcli.CacheKey]int),
		locks:    newNumberLocks(),
	}
}

// Open loads persisted entries in access order and enforces the size bound.
func (c *Cache) Open(ctx context.Context) error {
	entries, err := c.store.ListEntries(ctx)
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "load cache entries")
	}

	c.mu.Lock()
	c.order.Purge()
	c.bytes = 0
	for _, e := range entries {
		c.order.Add(e.Key(), e.Size)
		c.bytes += e.Size
	}
	victims := c.evictLocked(nil)
	c.mu.Unlock()

	return c.deleteVictims(ctx, victims)
}

// Put stores content for (number, kind), replacing any previous entry.
func (c *Cache) Put(ctx context.Context, number int, kind rfcli.CacheKind, content []byte) (*rfcli.CacheEntry, error) {
	now := c.Now().UTC()
	entry := &rfcli.CacheEntry{
		Number:     number,
		Kind:       kind,
		Content:    content,
		Hash:       rfcli.HashContent(content),
		Size:       int64(len(content)),
		CreatedAt:  now,
		AccessedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	unlock := c.locks.lock(number)
	if err := c.store.SaveEntry(ctx, entry); err != nil {
		unlock()
		if code := rfcli.ErrorCode(err); code == rfcli.EIO || code == rfcli.EINVALID {
			return nil, err
		}
		return nil, rfcli.Wrap(rfcli.EIO, err, "save %s for rfc %d", kind, number)
	}

	key := entry.Key()
	c.mu.Lock()
	c.addLocked(key, entry.Size)
	victims := c.evictLocked(&key)
	c.mu.Unlock()
	// Victims take their own number locks, which may include ours.
	unlock()

	if err := c.deleteVictims(ctx, victims); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get returns the entry for (number, kind). Entries older than the TTL are
// reported as a miss but left in place.
func (c *Cache) Get(ctx context.Context, number int, kind rfcli.CacheKind) (*rfcli.CacheEntry, bool, error) {
	key := rfcli.CacheKey{Number: number, Kind: kind}

	c.mu.Lock()
	c.pins[key]++
	c.mu.Unlock()
	defer c.unpin(key)

	entry, err := c.store.FindEntry(ctx, key)
	if rfcli.ErrorCode(err) == rfcli.ENOTFOUND {
		c.mu.Lock()
		c.removeLocked(key)
		c.mu.Unlock()
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if !c.order.Contains(key) {
		c.addLocked(key, entry.Size)
	}
	c.mu.Unlock()

	now := c.Now().UTC()
	if c.ttl > 0 && now.Sub(entry.CreatedAt) > c.ttl {
		return nil, false, nil
	}

	if err := c.store.TouchEntry(ctx, key, now); err != nil {
		return nil, false, rfcli.Wrap(rfcli.EIO, err, "touch %s for rfc %d", kind, number)
	}
	entry.AccessedAt = now

	// Only real hits count as use.
	c.mu.Lock()
	c.order.Get(key)
	c.mu.Unlock()
	return entry, true, nil
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(ctx context.Context, number int, kind rfcli.CacheKind) error {
	unlock := c.locks.lock(number)
	defer unlock()

	key := rfcli.CacheKey{Number: number, Kind: kind}
	if err := c.store.DeleteEntry(ctx, key); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "delete %s for rfc %d", kind, number)
	}

	c.mu.Lock()
	c.removeLocked(key)
	c.mu.Unlock()
	return nil
}

// InvalidateAll removes every entry for number.
func (c *Cache) InvalidateAll(ctx context.Context, number int) error {
	unlock := c.locks.lock(number)
	defer unlock()

	if err := c.store.DeleteEntries(ctx, number); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "delete cache entries for rfc %d", number)
	}

	c.mu.Lock()
	c.removeLocked(rfcli.CacheKey{Number: number, Kind: rfcli.KindRaw})
	c.removeLocked(rfcli.CacheKey{Number: number, Kind: rfcli.KindTLDR})
	c.mu.Unlock()
	return nil
}

// Stats reports the tracked entry count and total size.
func (c *Cache) Stats() rfcli.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return rfcli.CacheStats{Entries: c.order.Len(), Bytes: c.bytes}
}

func (c *Cache) unpin(key rfcli.CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pins[key]--; c.pins[key] <= 0 {
		delete(c.pins, key)
	}
}

func (c *Cache) addLocked(key rfcli.CacheKey, size int64) {
	if old, ok := c.order.Peek(key); ok {
		c.bytes -= old
	}
	c.order.Add(key, size)
	c.bytes += size
}

func (c *Cache) removeLocked(key rfcli.CacheKey) {
	if size, ok := c.order.Peek(key); ok {
		c.order.Remove(key)
		c.bytes -= size
	}
}

// evictLocked drops least recently used entries until the cache fits.
// Pinned entries and keep are never chosen.
func (c *Cache) evictLocked(keep *rfcli.CacheKey) []rfcli.CacheKey {
	if c.maxBytes <= 0 || c.bytes <= c.maxBytes {
		return nil
	}
	var victims []rfcli.CacheKey
	for _, key := range c.order.Keys() {
		if c.bytes <= c.maxBytes {
			break
		}
		if keep != nil && key == *keep {
			continue
		}
		if c.pins[key] > 0 {
			continue
		}
		c.removeLocked(key)
		victims = append(victims, key)
	}
	return victims
}

// deleteVictims removes evicted entries from the store. Each delete holds
// the victim's number lock and is skipped when a put has re-added the key
// since it was chosen.
func (c *Cache) deleteVictims(ctx context.Context, victims []rfcli.CacheKey) error {
	for _, key := range victims {
		if err := c.deleteVictim(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) deleteVictim(ctx context.Context, key rfcli.CacheKey) error {
	unlock := c.locks.lock(key.Number)
	defer unlock()

	c.mu.Lock()
	readded := c.order.Contains(key)
	c.mu.Unlock()
	if readded {
		return nil
	}

	if err := c.store.DeleteEntry(ctx, key); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "evict %s for rfc %d", key.Kind, key.Number)
	}
	return nil
}
