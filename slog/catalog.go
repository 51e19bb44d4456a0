package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rfcli"
)

// Ensure LoggingCatalogSource implements rfcli.CatalogSource.
var _ rfcli.CatalogSource = (*LoggingCatalogSource)(nil)

// LoggingCatalogSource wraps a CatalogSource with logging.
type LoggingCatalogSource struct {
	next   rfcli.CatalogSource
	logger *slog.Logger
}

// NewLoggingCatalogSource creates a new LoggingCatalogSource.
func NewLoggingCatalogSource(next rfcli.CatalogSource, logger *slog.Logger) *LoggingCatalogSource {
	return &LoggingCatalogSource{next: next, logger: logger}
}

// FetchCatalog delegates to the wrapped source and logs the operation.
func (s *LoggingCatalogSource) FetchCatalog(ctx context.Context) (records []*rfcli.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("catalog fetch",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchCatalog(ctx)
}
