package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/rfcli"
)

// Ensure decorators implement their interfaces at compile time.
var (
	_ rfcli.ContentCache = (*ContentCache)(nil)
	_ rfcli.Fetcher      = (*Fetcher)(nil)
	_ rfcli.Searcher     = (*Searcher)(nil)
	_ rfcli.TLDRService  = (*TLDRService)(nil)
)

// ContentCache counts hits and misses of a ContentCache.
type ContentCache struct {
	next    rfcli.ContentCache
	metrics *Metrics
}

// NewContentCache wraps next.
func NewContentCache(next rfcli.ContentCache, m *Metrics) *ContentCache {
	return &ContentCache{next: next, metrics: m}
}

func (c *ContentCache) Put(ctx context.Context, number int, kind rfcli.CacheKind, content []byte) (*rfcli.CacheEntry, error) {
	return c.next.Put(ctx, number, kind, content)
}

func (c *ContentCache) Get(ctx context.Context, number int, kind rfcli.CacheKind) (*rfcli.CacheEntry, bool, error) {
	entry, ok, err := c.next.Get(ctx, number, kind)
	result := "hit"
	switch {
	case err != nil:
		result = "error"
	case !ok:
		result = "miss"
	}
	c.metrics.cacheRequests.WithLabelValues(string(kind), result).Inc()
	return entry, ok, err
}

func (c *ContentCache) Invalidate(ctx context.Context, number int, kind rfcli.CacheKind) error {
	return c.next.Invalidate(ctx, number, kind)
}

func (c *ContentCache) InvalidateAll(ctx context.Context, number int) error {
	return c.next.InvalidateAll(ctx, number)
}

// Fetcher records download latency and failures.
type Fetcher struct {
	next    rfcli.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next.
func NewFetcher(next rfcli.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

func (f *Fetcher) FetchRaw(ctx context.Context, number int) ([]byte, error) {
	begin := time.Now()
	body, err := f.next.FetchRaw(ctx, number)
	f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
	if err != nil {
		f.metrics.fetchErrors.WithLabelValues(rfcli.ErrorCode(err)).Inc()
	}
	return body, err
}

func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Searcher records query latency and result counts.
type Searcher struct {
	next    rfcli.Searcher
	metrics *Metrics
}

// NewSearcher wraps next.
func NewSearcher(next rfcli.Searcher, m *Metrics) *Searcher {
	return &Searcher{next: next, metrics: m}
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]rfcli.QueryResult, error) {
	begin := time.Now()
	results, err := s.next.Search(ctx, query, limit)
	s.metrics.searchDuration.Observe(time.Since(begin).Seconds())
	if err == nil {
		s.metrics.searchResults.Observe(float64(len(results)))
	}
	return results, err
}

// TLDRService counts TLDR outcomes. Successful requests are labeled "ok",
// failures by error code.
type TLDRService struct {
	next    rfcli.TLDRService
	metrics *Metrics
}

// NewTLDRService wraps next.
func NewTLDRService(next rfcli.TLDRService, m *Metrics) *TLDRService {
	return &TLDRService{next: next, metrics: m}
}

func (s *TLDRService) TLDR(ctx context.Context, number int) (string, error) {
	summary, err := s.next.TLDR(ctx, number)
	outcome := "ok"
	if err != nil {
		outcome = rfcli.ErrorCode(err)
	}
	s.metrics.tldrOutcomes.WithLabelValues(outcome).Inc()
	return summary, err
}

func (s *TLDRService) Raw(ctx context.Context, number int) ([]byte, error) {
	return s.next.Raw(ctx, number)
}
