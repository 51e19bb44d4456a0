package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rfcli"
)

// Ensure LoggingSearcher implements rfcli.Searcher.
var _ rfcli.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging.
type LoggingSearcher struct {
	next   rfcli.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next rfcli.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string, limit int) (results []rfcli.QueryResult, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("search",
			"query", query,
			"limit", limit,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, limit)
}
