package rfcli

import "context"

// Fetcher retrieves the plain-text source of RFCs.
type Fetcher interface {
	// FetchRaw returns the raw text of an RFC.
	// Returns ENOTFOUND if the RFC is not published and EFETCH on
	// transport failures. The context controls timeout and cancellation.
	FetchRaw(ctx context.Context, number int) ([]byte, error)

	// Close releases resources.
	Close() error
}

// FeedFetcher retrieves the RFC Editor's index feed.
type FeedFetcher interface {
	FetchFeed(ctx context.Context) ([]byte, error)
}
