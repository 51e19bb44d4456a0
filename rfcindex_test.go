package rfcli_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndexText = `
                        RFC INDEX
                      -------------

0001 Host Software. S. Crocker. April 1969. (Format: TXT, HTML) (Status:
     UNKNOWN) (DOI: 10.17487/RFC0001)

0003 Not Issued.

2119 Key words for use in RFCs to Indicate Requirement Levels. S.
     Bradner. March 1997. (Format: TXT, HTML) (Updated by RFC8174) (Also
     BCP0014) (Status: BEST CURRENT PRACTICE) (DOI: 10.17487/RFC2119)

8446 The Transport Layer Security (TLS) Protocol Version 1.3. E.
     Rescorla. August 2018. (Format: HTML, TXT, PDF, XML) (Obsoletes
     RFC5077, RFC5246, RFC6961) (Updates RFC5705, RFC6066) (Status:
     PROPOSED STANDARD) (Stream: IETF) (DOI: 10.17487/RFC8446)

2850 Charter of the Internet Architecture Board (IAB). Internet
     Architecture Board, B. Carpenter, Ed.. May 2000. (Format: TXT, HTML)
     (Also BCP0039) (Status: BEST CURRENT PRACTICE) (DOI:
     10.17487/RFC2850)
`

func TestParseIndexText(t *testing.T) {
	t.Parallel()

	records, err := rfcli.ParseIndexText(strings.NewReader(sampleIndexText))
	require.NoError(t, err)
	require.Len(t, records, 4)

	byNumber := make(map[int]*rfcli.Record)
	for _, r := range records {
		byNumber[r.Number] = r
	}

	t.Run("parses title, date and status", func(t *testing.T) {
		t.Parallel()

		r := byNumber[8446]
		require.NotNil(t, r)
		assert.Equal(t, "The Transport Layer Security (TLS) Protocol Version 1.3", r.Title)
		assert.Equal(t, rfcli.PubDate{Year: 2018, Month: time.August}, r.Date)
		assert.Equal(t, rfcli.StatusStandardsTrack, r.Status)
	})

	t.Run("parses relations", func(t *testing.T) {
		t.Parallel()

		r := byNumber[8446]
		assert.Equal(t, []int{5077, 5246, 6961}, r.Obsoletes)
		assert.Equal(t, []int{5705, 6066}, r.Updates)
		assert.Equal(t, []int{8174}, byNumber[2119].UpdatedBy)
	})

	t.Run("parses status across line breaks", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, rfcli.StatusBestCurrentPractice, byNumber[2119].Status)
		assert.Equal(t, rfcli.StatusUnknown, byNumber[1].Status)
		assert.Equal(t, "Host Software", byNumber[1].Title)
	})

	t.Run("handles organizational authors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Charter of the Internet Architecture Board (IAB)", byNumber[2850].Title)
	})

	t.Run("skips not issued entries", func(t *testing.T) {
		t.Parallel()

		assert.NotContains(t, byNumber, 3)
	})
}
