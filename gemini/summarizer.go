// Package gemini implements summarization and token counting with
// Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/rfcli"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxPromptTokens bounds the RFC text sent with each request.
const DefaultMaxPromptTokens = 8000

// Ensure Summarizer implements rfcli.Summarizer at compile time.
var _ rfcli.Summarizer = (*Summarizer)(nil)

// Summarizer implements rfcli.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string

	// Tokens, when set, trims the prompt text to MaxPromptTokens.
	Tokens          rfcli.TokenCounter
	MaxPromptTokens int
}

// NewSummarizer creates a new Summarizer. An empty model selects DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model, MaxPromptTokens: DefaultMaxPromptTokens}
}

// Model returns the model name used for requests.
func (s *Summarizer) Model() string {
	return s.model
}

// Summarize asks Gemini for a TLDR of the given RFC text.
func (s *Summarizer) Summarize(ctx context.Context, number int, text string) (string, error) {
	if number <= 0 {
		return "", rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	if strings.TrimSpace(text) == "" {
		return "", rfcli.Errorf(rfcli.EINVALID, "rfc %d text required", number)
	}

	text, err := s.fit(ctx, text)
	if err != nil {
		return "", err
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(rfcli.SummaryPrompt(number, text), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", classify(ctx, err)
	}
	if result == nil {
		return "", rfcli.Errorf(rfcli.EDERIVE, "gemini returned nil result")
	}
	return result.Text(), nil
}

// fit drops trailing lines until text fits the prompt token budget.
func (s *Summarizer) fit(ctx context.Context, text string) (string, error) {
	if s.Tokens == nil || s.MaxPromptTokens <= 0 {
		return text, nil
	}
	lines := strings.Split(text, "\n")
	for len(lines) > 1 {
		n, err := s.Tokens.CountTokens(ctx, text)
		if err != nil {
			return "", rfcli.Wrap(rfcli.EDERIVE, err, "count tokens")
		}
		if n <= s.MaxPromptTokens {
			break
		}
		keep := len(lines) * s.MaxPromptTokens / n
		if keep >= len(lines) {
			keep = len(lines) - 1
		}
		if keep < 1 {
			keep = 1
		}
		lines = lines[:keep]
		text = strings.Join(lines, "\n")
	}
	return text, nil
}

// classify maps API failures onto application error codes. Rate limiting
// and server errors are reported as EFETCH so callers may retry them.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return rfcli.Wrap(rfcli.EFETCH, err, "gemini unavailable (%d)", apiErr.Code)
		}
		return rfcli.Wrap(rfcli.EDERIVE, err, "gemini rejected request (%d)", apiErr.Code)
	}
	return rfcli.Wrap(rfcli.EFETCH, err, "gemini request failed")
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: rfcli.SummaryInstruction}},
		},
		Temperature: &temp,
	}
}
