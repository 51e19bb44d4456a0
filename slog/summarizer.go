package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rfcli"
)

// Ensure LoggingSummarizer implements rfcli.Summarizer.
var _ rfcli.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with debug logging.
type LoggingSummarizer struct {
	next   rfcli.Summarizer
	model  string
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next rfcli.Summarizer, model string, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, model: model, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, number int, text string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("summarize",
			"number", number,
			"model", s.model,
			"input_bytes", len(text),
			"output_bytes", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, number, text)
}
