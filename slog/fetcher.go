// Package slog provides structured logging decorators for rfcli services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rfcli"
)

// Ensure LoggingFetcher implements rfcli.Fetcher.
var _ rfcli.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   rfcli.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next rfcli.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchRaw delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchRaw(ctx context.Context, number int) (body []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"number", number,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchRaw(ctx, number)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingFeedFetcher implements rfcli.FeedFetcher.
var _ rfcli.FeedFetcher = (*LoggingFeedFetcher)(nil)

// LoggingFeedFetcher wraps a FeedFetcher with logging.
type LoggingFeedFetcher struct {
	next   rfcli.FeedFetcher
	url    string
	logger *slog.Logger
}

// NewLoggingFeedFetcher creates a new LoggingFeedFetcher. url is only
// used as a log attribute.
func NewLoggingFeedFetcher(next rfcli.FeedFetcher, url string, logger *slog.Logger) *LoggingFeedFetcher {
	return &LoggingFeedFetcher{next: next, url: url, logger: logger}
}

// FetchFeed delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFeedFetcher) FetchFeed(ctx context.Context) (data []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("feed download",
			"url", f.url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchFeed(ctx)
}
