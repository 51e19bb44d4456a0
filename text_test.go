package rfcli_test

import (
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("removes page footers and running headers", func(t *testing.T) {
		t.Parallel()

		raw := "Intro line\n\nRescorla                     Standards Track                    [Page 1]\n\f\nRFC 8446                           TLS                       August 2018\n\nBody line\n"

		got := rfcli.CleanText(raw)

		assert.NotContains(t, got, "[Page 1]")
		assert.NotContains(t, got, "RFC 8446   ")
		assert.NotContains(t, got, "\f")
		assert.Contains(t, got, "Intro line")
		assert.Contains(t, got, "Body line")
	})

	t.Run("collapses blank runs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "a\n\nb", rfcli.CleanText("a\n\n\n\n\nb"))
	})
}

func TestHead(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb", rfcli.Head("a\nb\nc", 2))
	assert.Equal(t, "a\nb\nc", rfcli.Head("a\nb\nc", 10))
	assert.Equal(t, "a\nb\nc", rfcli.Head("a\nb\nc", 0))
}

func TestTidySummary(t *testing.T) {
	t.Parallel()

	summary := "Here is a summary of RFC 8446:\n\n**TLS 1.3** replaces TLS 1.2.\n  \n- HANDSHAKE: one round trip\nThis is the summary of RFC 8446 below\n"

	lines := rfcli.TidySummary(summary)

	assert.Equal(t, []string{"TLS 1.3 replaces TLS 1.2.", "- HANDSHAKE: one round trip"}, lines)
}
