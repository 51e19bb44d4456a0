package http

import (
	"context"

	"github.com/fwojciec/rfcli"
)

// Index feed locations published by the RFC Editor.
const (
	DefaultIndexXMLURL  = "https://www.rfc-editor.org/rfc-index.xml"
	DefaultIndexTextURL = "https://www.rfc-editor.org/rfc/rfc-index.txt"
)

var _ rfcli.FeedFetcher = (*FeedFetcher)(nil)

// FeedFetcher downloads the RFC index feed.
type FeedFetcher struct {
	client *client
	url    string
}

// NewFeedFetcher creates a FeedFetcher for url. An empty url uses
// DefaultIndexXMLURL.
func NewFeedFetcher(url string, opts ...Option) *FeedFetcher {
	if url == "" {
		url = DefaultIndexXMLURL
	}
	return &FeedFetcher{client: newClient(opts), url: url}
}

// URL returns the feed location.
func (f *FeedFetcher) URL() string {
	return f.url
}

// FetchFeed downloads the whole feed.
func (f *FeedFetcher) FetchFeed(ctx context.Context) ([]byte, error) {
	return f.client.get(ctx, f.url)
}
