//go:build integration

package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/rfcli/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	t.Run("counts tokens in rfc text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "The key words MUST, MUST NOT and SHOULD are to be interpreted as described in RFC 2119.")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("blank text returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), " \n")

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("more lines count more tokens", func(t *testing.T) {
		t.Parallel()

		one, err := tc.CountTokens(context.Background(), "Abstract")
		require.NoError(t, err)
		many, err := tc.CountTokens(context.Background(), "Abstract\n\nThis document specifies version 1.3 of the Transport Layer Security protocol.")
		require.NoError(t, err)

		assert.Greater(t, many, one)
	})

	t.Run("estimate stays within a factor of two", func(t *testing.T) {
		t.Parallel()

		text := "This document specifies version 1.3 of the Transport Layer Security (TLS) protocol. TLS allows client/server applications to communicate over the Internet."
		exact, err := tc.CountTokens(context.Background(), text)
		require.NoError(t, err)
		estimate, err := gemini.EstimateCounter{}.CountTokens(context.Background(), text)
		require.NoError(t, err)

		assert.InDelta(t, exact, estimate, float64(exact))
	})
}
