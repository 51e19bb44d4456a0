package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/rfcli"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var (
	_ rfcli.TokenCounter = (*TokenCounter)(nil)
	_ rfcli.TokenCounter = EstimateCounter{}
)

// TokenCounter counts prompt tokens with the local Gemini tokenizer. The
// tokenizer model is downloaded on first use.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer for model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, rfcli.Wrap(rfcli.EINVALID, err, "load tokenizer for %s", model)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// CountTokens counts the tokens text costs as a user turn. Blank text is free.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, rfcli.Wrap(rfcli.EINTERNAL, err, "count tokens for %s", tc.model)
	}
	return int(result.TotalTokens), nil
}

// DefaultBytesPerToken is the ratio EstimateCounter assumes. Plain-text
// RFCs average close to four bytes per Gemini token.
const DefaultBytesPerToken = 4

// EstimateCounter approximates token counts from text length. It stands in
// for TokenCounter when the tokenizer model cannot be loaded, e.g. offline.
type EstimateCounter struct {
	BytesPerToken int
}

// CountTokens returns len(text) divided by BytesPerToken, rounded up.
func (e EstimateCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	per := e.BytesPerToken
	if per <= 0 {
		per = DefaultBytesPerToken
	}
	return (len(text) + per - 1) / per, nil
}
