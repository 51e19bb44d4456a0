package mock

import (
	"context"
	"time"

	"github.com/fwojciec/rfcli"
)

var _ rfcli.ContentCache = (*ContentCache)(nil)

// ContentCache is a mock implementation of rfcli.ContentCache.
type ContentCache struct {
	PutFn           func(ctx context.Context, number int, kind rfcli.CacheKind, content []byte) (*rfcli.CacheEntry, error)
	GetFn           func(ctx context.Context, number int, kind rfcli.CacheKind) (*rfcli.CacheEntry, bool, error)
	InvalidateFn    func(ctx context.Context, number int, kind rfcli.CacheKind) error
	InvalidateAllFn func(ctx context.Context, number int) error
}

func (c *ContentCache) Put(ctx context.Context, number int, kind rfcli.CacheKind, content []byte) (*rfcli.CacheEntry, error) {
	return c.PutFn(ctx, number, kind, content)
}

func (c *ContentCache) Get(ctx context.Context, number int, kind rfcli.CacheKind) (*rfcli.CacheEntry, bool, error) {
	return c.GetFn(ctx, number, kind)
}

func (c *ContentCache) Invalidate(ctx context.Context, number int, kind rfcli.CacheKind) error {
	return c.InvalidateFn(ctx, number, kind)
}

func (c *ContentCache) InvalidateAll(ctx context.Context, number int) error {
	return c.InvalidateAllFn(ctx, number)
}

var _ rfcli.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of rfcli.CacheStore.
type CacheStore struct {
	SaveEntryFn     func(ctx context.Context, entry *rfcli.CacheEntry) error
	FindEntryFn     func(ctx context.Context, key rfcli.CacheKey) (*rfcli.CacheEntry, error)
	TouchEntryFn    func(ctx context.Context, key rfcli.CacheKey, at time.Time) error
	DeleteEntryFn   func(ctx context.Context, key rfcli.CacheKey) error
	DeleteEntriesFn func(ctx context.Context, number int) error
	ListEntriesFn   func(ctx context.Context) ([]*rfcli.CacheEntry, error)
}

func (s *CacheStore) SaveEntry(ctx context.Context, entry *rfcli.CacheEntry) error {
	return s.SaveEntryFn(ctx, entry)
}

func (s *CacheStore) FindEntry(ctx context.Context, key rfcli.CacheKey) (*rfcli.CacheEntry, error) {
	return s.FindEntryFn(ctx, key)
}

func (s *CacheStore) TouchEntry(ctx context.Context, key rfcli.CacheKey, at time.Time) error {
	return s.TouchEntryFn(ctx, key, at)
}

func (s *CacheStore) DeleteEntry(ctx context.Context, key rfcli.CacheKey) error {
	return s.DeleteEntryFn(ctx, key)
}

func (s *CacheStore) DeleteEntries(ctx context.Context, number int) error {
	return s.DeleteEntriesFn(ctx, number)
}

func (s *CacheStore) ListEntries(ctx context.Context) ([]*rfcli.CacheEntry, error) {
	return s.ListEntriesFn(ctx)
}
