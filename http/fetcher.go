package http

import (
	"context"

	"github.com/fwojciec/rfcli"
)

// DefaultRawURL is the plain-text RFC location; %d is the RFC number.
const DefaultRawURL = "https://www.rfc-editor.org/rfc/rfc%d.txt"

// Ensure Fetcher implements rfcli.Fetcher at compile time.
var _ rfcli.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves plain-text RFC bodies.
type Fetcher struct {
	client   *client
	template string
}

// NewFetcher creates a Fetcher for the given URL template. An empty
// template uses DefaultRawURL.
func NewFetcher(template string, opts ...Option) *Fetcher {
	if template == "" {
		template = DefaultRawURL
	}
	return &Fetcher{client: newClient(opts), template: template}
}

// FetchRaw retrieves the text of RFC number.
func (f *Fetcher) FetchRaw(ctx context.Context, number int) ([]byte, error) {
	if number <= 0 {
		return nil, rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	body, err := f.client.get(ctx, expand(f.template, number))
	if rfcli.ErrorCode(err) == rfcli.ENOTFOUND {
		return nil, rfcli.Errorf(rfcli.ENOTFOUND, "rfc %d not found", number)
	}
	return body, err
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
