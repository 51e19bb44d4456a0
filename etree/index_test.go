package etree_test

import (
	"testing"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `<?xml version="1.0" encoding="UTF-8"?>
<rfc-index xmlns="https://www.rfc-editor.org/rfc-index"
           xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <bcp-entry>
    <doc-id>BCP0014</doc-id>
    <is-also><doc-id>RFC2119</doc-id></is-also>
  </bcp-entry>
  <rfc-entry>
    <doc-id>RFC0001</doc-id>
    <title>Host Software</title>
    <author><name>S. Crocker</name></author>
    <date><month>April</month><year>1969</year></date>
    <current-status>UNKNOWN</current-status>
    <publication-status>UNKNOWN</publication-status>
    <stream>Legacy</stream>
  </rfc-entry>
  <rfc-not-issued-entry>
    <doc-id>RFC0003</doc-id>
  </rfc-not-issued-entry>
  <rfc-entry>
    <doc-id>RFC2119</doc-id>
    <title>Key words for use in RFCs to Indicate
      Requirement Levels</title>
    <author><name>S. Bradner</name></author>
    <date><month>March</month><year>1997</year></date>
    <keywords><kw>Standards</kw><kw>Requirements</kw></keywords>
    <abstract><p>In many standards track documents several words are used
      to signify the requirements in the specification.</p></abstract>
    <is-also><doc-id>BCP0014</doc-id></is-also>
    <updated-by><doc-id>RFC8174</doc-id></updated-by>
    <current-status>BEST CURRENT PRACTICE</current-status>
  </rfc-entry>
  <rfc-entry>
    <doc-id>RFC8446</doc-id>
    <title>The Transport Layer Security (TLS) Protocol Version 1.3</title>
    <date><month>August</month><year>2018</year></date>
    <obsoletes><doc-id>RFC6961</doc-id><doc-id>RFC5077</doc-id><doc-id>RFC5246</doc-id></obsoletes>
    <updates><doc-id>RFC6066</doc-id><doc-id>RFC5705</doc-id></updates>
    <current-status>PROPOSED STANDARD</current-status>
  </rfc-entry>
  <rfc-entry>
    <doc-id>RFC8567</doc-id>
    <title>Customer Management DNS Resource Records</title>
    <date><month>April</month><day>1</day><year>2019</year></date>
    <current-status>INFORMATIONAL</current-status>
  </rfc-entry>
</rfc-index>`

func TestParseIndex(t *testing.T) {
	t.Parallel()

	t.Run("parses rfc entries", func(t *testing.T) {
		t.Parallel()

		records, err := etree.ParseIndex([]byte(sampleIndex))
		require.NoError(t, err)
		require.Len(t, records, 4)

		assert.Equal(t, &rfcli.Record{
			Number: 1,
			Title:  "Host Software",
			Date:   rfcli.PubDate{Year: 1969, Month: time.April},
			Status: rfcli.StatusUnknown,
		}, records[0])

		kw := records[1]
		assert.Equal(t, 2119, kw.Number)
		assert.Equal(t, "Key words for use in RFCs to Indicate Requirement Levels", kw.Title)
		assert.Equal(t, rfcli.StatusBestCurrentPractice, kw.Status)
		assert.Equal(t, []int{8174}, kw.UpdatedBy)
		assert.Equal(t, []string{"Standards", "Requirements"}, kw.Keywords)
		assert.Equal(t, "In many standards track documents several words are used to signify the requirements in the specification.", kw.Abstract)

		tls := records[2]
		assert.Equal(t, rfcli.StatusStandardsTrack, tls.Status)
		assert.Equal(t, []int{5077, 5246, 6961}, tls.Obsoletes)
		assert.Equal(t, []int{5705, 6066}, tls.Updates)
		assert.Equal(t, "August 2018", tls.Date.String())

		assert.Equal(t, rfcli.PubDate{Year: 2019, Month: time.April, Day: 1}, records[3].Date)
	})

	t.Run("rejects malformed xml", func(t *testing.T) {
		t.Parallel()

		_, err := etree.ParseIndex([]byte("<rfc-index><rfc-entry>"))
		require.Error(t, err)
		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
	})

	t.Run("rejects other documents", func(t *testing.T) {
		t.Parallel()

		_, err := etree.ParseIndex([]byte(`<urlset><url><loc>https://example.com</loc></url></urlset>`))
		require.Error(t, err)
		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
	})

	t.Run("skips entries without an rfc identifier", func(t *testing.T) {
		t.Parallel()

		records, err := etree.ParseIndex([]byte(`<rfc-index><rfc-entry><doc-id>STD0001</doc-id><title>x</title></rfc-entry></rfc-index>`))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("skips entries without a title", func(t *testing.T) {
		t.Parallel()

		records, err := etree.ParseIndex([]byte(`<rfc-index>
  <rfc-entry><doc-id>RFC0001</doc-id><title>Host Software</title></rfc-entry>
  <rfc-entry><doc-id>RFC0002</doc-id><title></title></rfc-entry>
  <rfc-entry><doc-id>RFC0004</doc-id></rfc-entry>
</rfc-index>`))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 1, records[0].Number)
		for _, r := range records {
			assert.NoError(t, r.Validate())
		}
	})
}
