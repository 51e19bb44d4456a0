package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/gemini"
	"github.com/fwojciec/rfcli/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client
}

func reply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
			}},
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("returns model text", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan string, 1)
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies <- string(b)
			reply("TLS 1.3: faster handshakes")(w, r)
		})
		s := gemini.NewSummarizer(client, "")

		got, err := s.Summarize(context.Background(), 8446, "Abstract\nThis document specifies TLS 1.3.")

		require.NoError(t, err)
		assert.Equal(t, "TLS 1.3: faster handshakes", got)
		body := <-bodies
		assert.Contains(t, body, "Summarize RFC 8446")
		assert.Contains(t, body, "Senior Systems Engineer")
	})

	t.Run("server errors are retryable fetch errors", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
		})
		s := gemini.NewSummarizer(client, "")

		_, err := s.Summarize(context.Background(), 8446, "text")

		assert.Equal(t, rfcli.EFETCH, rfcli.ErrorCode(err))
	})

	t.Run("client errors are derive errors", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`)
		})
		s := gemini.NewSummarizer(client, "")

		_, err := s.Summarize(context.Background(), 8446, "text")

		assert.Equal(t, rfcli.EDERIVE, rfcli.ErrorCode(err))
	})

	t.Run("empty text is invalid", func(t *testing.T) {
		t.Parallel()

		s := gemini.NewSummarizer(nil, "")

		_, err := s.Summarize(context.Background(), 8446, "  \n")

		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
	})

	t.Run("trims text to token budget", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan string, 1)
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			bodies <- string(b)
			reply("ok")(w, r)
		})
		var calls atomic.Int32
		s := gemini.NewSummarizer(client, "gemini-test")
		s.MaxPromptTokens = 3
		s.Tokens = &mock.TokenCounter{
			CountTokensFn: func(ctx context.Context, text string) (int, error) {
				calls.Add(1)
				return len(strings.Split(text, "\n")), nil
			},
		}

		_, err := s.Summarize(context.Background(), 1, "l1\nl2\nl3\nl4\nl5\nl6")

		require.NoError(t, err)
		body := <-bodies
		assert.Contains(t, body, `l1\nl2\nl3`)
		assert.NotContains(t, body, "l4")
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, rfcli.SummaryInstruction, config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, config.Temperature)
}
