package mock

import (
	"context"

	"github.com/fwojciec/rfcli"
)

var _ rfcli.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of rfcli.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, number int, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, number int, text string) (string, error) {
	return s.SummarizeFn(ctx, number, text)
}

var _ rfcli.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of rfcli.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}

var _ rfcli.TLDRService = (*TLDRService)(nil)

// TLDRService is a mock implementation of rfcli.TLDRService.
type TLDRService struct {
	TLDRFn func(ctx context.Context, number int) (string, error)
	RawFn  func(ctx context.Context, number int) ([]byte, error)
}

func (s *TLDRService) TLDR(ctx context.Context, number int) (string, error) {
	return s.TLDRFn(ctx, number)
}

func (s *TLDRService) Raw(ctx context.Context, number int) ([]byte, error) {
	return s.RawFn(ctx, number)
}

var _ rfcli.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of rfcli.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]rfcli.QueryResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]rfcli.QueryResult, error) {
	return s.SearchFn(ctx, query, limit)
}

var _ rfcli.Picker = (*Picker)(nil)

// Picker is a mock implementation of rfcli.Picker.
type Picker struct {
	PickFn func(ctx context.Context, query string) (int, bool, error)
}

func (p *Picker) Pick(ctx context.Context, query string) (int, bool, error) {
	return p.PickFn(ctx, query)
}
