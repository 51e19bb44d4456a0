package index

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/rfcli"
)

var _ rfcli.Searcher = (*Searcher)(nil)

// Searcher serves queries from the current index, rebuilding it from the
// catalog when the catalog version moves. Searches never take a lock;
// rebuilds are serialized and published with an atomic swap.
type Searcher struct {
	catalog rfcli.CatalogService

	current atomic.Pointer[Index]
	mu      sync.Mutex
}

// NewSearcher creates a Searcher over catalog. The index is built lazily
// on the first search.
func NewSearcher(catalog rfcli.CatalogService) *Searcher {
	return &Searcher{catalog: catalog}
}

// Search implements rfcli.Searcher.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]rfcli.QueryResult, error) {
	ix, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ix.Search(query, limit), nil
}

// Index returns an index that matches the current catalog version,
// rebuilding it first if it is stale.
func (s *Searcher) Index(ctx context.Context) (*Index, error) {
	version, err := s.catalog.Version(ctx)
	if err != nil {
		return nil, err
	}
	if ix := s.current.Load(); !ix.IsStale(version) {
		return ix, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have rebuilt while we waited.
	if ix := s.current.Load(); ix != nil && ix.Version() >= version {
		return ix, nil
	}
	return s.rebuildLocked(ctx)
}

// Refresh rebuilds the index unconditionally.
func (s *Searcher) Refresh(ctx context.Context) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx)
}

func (s *Searcher) rebuildLocked(ctx context.Context) (*Index, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ix := Build(snap)
	s.current.Store(ix)
	return ix, nil
}
