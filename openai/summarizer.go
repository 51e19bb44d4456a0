// Package openai implements summarization against OpenAI-compatible chat
// completion APIs. Groq Cloud is the default endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/rfcli"
)

// Defaults for the Groq Cloud endpoint.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
	DefaultTimeout = 60 * time.Second
)

const maxErrorBody = 4 << 10

// Ensure Summarizer implements rfcli.Summarizer at compile time.
var _ rfcli.Summarizer = (*Summarizer)(nil)

// Summarizer implements rfcli.Summarizer with a chat completion request.
type Summarizer struct {
	http    *http.Client
	apiKey  string
	baseURL string
	model   string
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithBaseURL points the summarizer at another OpenAI-compatible API.
func WithBaseURL(u string) Option {
	return func(s *Summarizer) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides DefaultModel.
func WithModel(m string) Option {
	return func(s *Summarizer) {
		if m != "" {
			s.model = m
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Summarizer) {
		s.http = c
	}
}

// NewSummarizer creates a Summarizer authenticating with apiKey.
func NewSummarizer(apiKey string, opts ...Option) *Summarizer {
	s := &Summarizer{
		http:    &http.Client{Timeout: DefaultTimeout},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the model name used for requests.
func (s *Summarizer) Model() string {
	return s.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize requests a TLDR of the given RFC text.
// Rate limiting, server errors and transport failures are EFETCH;
// rejected requests and unusable responses are EDERIVE.
func (s *Summarizer) Summarize(ctx context.Context, number int, text string) (string, error) {
	if number <= 0 {
		return "", rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	if strings.TrimSpace(text) == "" {
		return "", rfcli.Errorf(rfcli.EINVALID, "rfc %d text required", number)
	}
	if s.apiKey == "" {
		return "", rfcli.Errorf(rfcli.EINVALID, "api key required")
	}

	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []message{
			{Role: "system", Content: rfcli.SummaryInstruction},
			{Role: "user", Content: rfcli.SummaryPrompt(number, text)},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", rfcli.Errorf(rfcli.EINVALID, "invalid base url %q: %v", s.baseURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", rfcli.Wrap(rfcli.ETIMEOUT, err, "summarize rfc %d", number)
		}
		return "", rfcli.Wrap(rfcli.EFETCH, err, "summarize rfc %d", number)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", rfcli.Wrap(rfcli.EDERIVE, err, "decode completion")
	}
	if out.Error != nil {
		return "", rfcli.Errorf(rfcli.EDERIVE, "completion failed: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", rfcli.Errorf(rfcli.EDERIVE, "completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var out chatResponse
	detail := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &out) == nil && out.Error != nil {
		detail = out.Error.Message
	}
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if detail != "" {
		msg += ": " + detail
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return rfcli.Errorf(rfcli.EFETCH, "summary api unavailable (%s)", msg)
	}
	return rfcli.Errorf(rfcli.EDERIVE, "summary api rejected request (%s)", msg)
}
