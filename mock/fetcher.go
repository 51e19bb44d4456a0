package mock

import (
	"context"

	"github.com/fwojciec/rfcli"
)

var _ rfcli.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of rfcli.Fetcher.
type Fetcher struct {
	FetchRawFn func(ctx context.Context, number int) ([]byte, error)
	CloseFn    func() error
}

func (f *Fetcher) FetchRaw(ctx context.Context, number int) ([]byte, error) {
	return f.FetchRawFn(ctx, number)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ rfcli.FeedFetcher = (*FeedFetcher)(nil)

// FeedFetcher is a mock implementation of rfcli.FeedFetcher.
type FeedFetcher struct {
	FetchFeedFn func(ctx context.Context) ([]byte, error)
}

func (f *FeedFetcher) FetchFeed(ctx context.Context) ([]byte, error) {
	return f.FetchFeedFn(ctx)
}
