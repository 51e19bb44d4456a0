package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/rfcli/mock"
	rfslog "github.com/fwojciec/rfcli/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_FetchRaw(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchRawFn: func(ctx context.Context, number int) ([]byte, error) {
				return []byte("Network Working Group"), nil
			},
		}

		fetcher := rfslog.NewLoggingFetcher(inner, debugLogger(&buf))
		body, err := fetcher.FetchRaw(context.Background(), 2119)

		require.NoError(t, err)
		assert.Equal(t, "Network Working Group", string(body))
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "number=2119")
		assert.Contains(t, output, "bytes=21")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchRawFn: func(ctx context.Context, number int) ([]byte, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := rfslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.FetchRaw(context.Background(), 2119)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})

	t.Run("silent at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchRawFn: func(ctx context.Context, number int) ([]byte, error) {
				return []byte("x"), nil
			},
		}

		fetcher := rfslog.NewLoggingFetcher(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := fetcher.FetchRaw(context.Background(), 1)

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	fetcher := rfslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler))
	err := fetcher.Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingFeedFetcher_FetchFeed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.FeedFetcher{
		FetchFeedFn: func(ctx context.Context) ([]byte, error) {
			return []byte("<rfc-index/>"), nil
		},
	}

	fetcher := rfslog.NewLoggingFeedFetcher(inner, "https://www.rfc-editor.org/rfc-index.xml", slog.New(slog.NewTextHandler(&buf, nil)))
	_, err := fetcher.FetchFeed(context.Background())

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "feed download")
	assert.Contains(t, output, "url=https://www.rfc-editor.org/rfc-index.xml")
	assert.Contains(t, output, "bytes=12")
}
