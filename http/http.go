// Package http fetches plain-text RFCs and the RFC Editor index over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/rfcli"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRPS is the default request rate per host.
const DefaultRPS = 2

// MaxBodyBytes caps how much of a response is read.
const MaxBodyBytes = 32 << 20

// UserAgent identifies rfcli to the RFC Editor.
const UserAgent = "rfcli/1.0 (+https://github.com/fwojciec/rfcli)"

// client is the request machinery shared by Fetcher and FeedFetcher.
type client struct {
	http    *http.Client
	timeout time.Duration
	limiter *HostLimiter
}

// Option configures a Fetcher or FeedFetcher.
type Option func(*client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithLimiter paces requests through l. Share one limiter between
// fetchers that talk to the same host.
func WithLimiter(l *HostLimiter) Option {
	return func(c *client) {
		c.limiter = l
	}
}

func newClient(opts []Option) *client {
	c := &client{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = NewHostLimiter(DefaultRPS)
	}
	c.http = &http.Client{Timeout: c.timeout}
	return c
}

// get retrieves rawURL. A 404 is ENOTFOUND, a client timeout ETIMEOUT and
// every other failure EFETCH. Context errors are returned unwrapped.
func (c *client) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rfcli.Errorf(rfcli.EINVALID, "invalid url %q: %v", rawURL, err)
	}

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, rfcli.Wrap(rfcli.EFETCH, err, "rate limit %s", u.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, rfcli.Wrap(rfcli.ETIMEOUT, err, "GET %s", rawURL)
		}
		return nil, rfcli.Wrap(rfcli.EFETCH, err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, rfcli.Errorf(rfcli.ENOTFOUND, "%s not found", rawURL)
	case resp.StatusCode != http.StatusOK:
		return nil, rfcli.Errorf(rfcli.EFETCH, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, rfcli.Wrap(rfcli.EFETCH, err, "read %s", rawURL)
	}
	if len(body) > MaxBodyBytes {
		return nil, rfcli.Errorf(rfcli.EFETCH, "%s exceeds %d bytes", rawURL, MaxBodyBytes)
	}
	return body, nil
}

func expand(template string, number int) string {
	return fmt.Sprintf(template, number)
}
