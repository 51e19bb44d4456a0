package refresh_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/fs"
	"github.com/fwojciec/rfcli/mock"
	"github.com/fwojciec/rfcli/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rfc-index xmlns="https://www.rfc-editor.org/rfc-index">
  <rfc-entry>
    <doc-id>RFC2119</doc-id>
    <title>Key words for use in RFCs to Indicate Requirement Levels</title>
    <date><month>March</month><year>1997</year></date>
    <current-status>BEST CURRENT PRACTICE</current-status>
  </rfc-entry>
  <rfc-entry>
    <doc-id>RFC8446</doc-id>
    <title>The Transport Layer Security (TLS) Protocol Version 1.3</title>
    <date><month>August</month><year>2018</year></date>
    <current-status>PROPOSED STANDARD</current-status>
  </rfc-entry>
</rfc-index>`

func feed(data string, err error) *mock.FeedFetcher {
	return &mock.FeedFetcher{
		FetchFeedFn: func(ctx context.Context) ([]byte, error) {
			if err != nil {
				return nil, err
			}
			return []byte(data), nil
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := refresh.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, refresh.FormatXML, f)

	f, err = refresh.ParseFormat("txt")
	require.NoError(t, err)
	assert.Equal(t, "rfc-index.txt", f.SnapshotName())

	_, err = refresh.ParseFormat("json")
	assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
}

func TestSource_FetchCatalog(t *testing.T) {
	t.Parallel()

	t.Run("parses feed and saves snapshot", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		src := refresh.NewSource(feed(feedXML, nil), store, refresh.FormatXML)

		records, err := src.FetchCatalog(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 2119, records[0].Number)
		assert.Equal(t, 8446, records[1].Number)

		data, err := store.Load("rfc-index.xml")
		require.NoError(t, err)
		assert.Equal(t, feedXML, string(data))
	})

	t.Run("falls back to snapshot on fetch failure", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		_, err := store.Save(context.Background(), "rfc-index.xml", []byte(feedXML))
		require.NoError(t, err)
		src := refresh.NewSource(feed("", rfcli.Errorf(rfcli.EFETCH, "offline")), store, refresh.FormatXML)

		records, err := src.FetchCatalog(context.Background())

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("returns fetch error without snapshot", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		src := refresh.NewSource(feed("", rfcli.Errorf(rfcli.EFETCH, "offline")), store, refresh.FormatXML)

		_, err := src.FetchCatalog(context.Background())

		assert.Equal(t, rfcli.EFETCH, rfcli.ErrorCode(err))
	})

	t.Run("does not fall back when canceled", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		_, err := store.Save(context.Background(), "rfc-index.xml", []byte(feedXML))
		require.NoError(t, err)
		src := refresh.NewSource(feed("", context.Canceled), store, refresh.FormatXML)

		_, err = src.FetchCatalog(context.Background())

		assert.Equal(t, rfcli.ECANCELED, rfcli.ErrorCode(err))
	})

	t.Run("invalid feed keeps previous snapshot", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		_, err := store.Save(context.Background(), "rfc-index.xml", []byte(feedXML))
		require.NoError(t, err)
		src := refresh.NewSource(feed("<html></html>", nil), store, refresh.FormatXML)

		_, err = src.FetchCatalog(context.Background())

		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
		data, err := store.Load("rfc-index.xml")
		require.NoError(t, err)
		assert.Equal(t, feedXML, string(data))
	})

	t.Run("offline reads snapshot only", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		_, err := store.Save(context.Background(), "rfc-index.xml", []byte(feedXML))
		require.NoError(t, err)
		src := refresh.NewSource(&mock.FeedFetcher{}, store, refresh.FormatXML)
		src.Offline = true

		records, err := src.FetchCatalog(context.Background())

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestRefresher_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("upserts records as one batch", func(t *testing.T) {
		t.Parallel()

		var batches [][]*rfcli.Record
		r := &refresh.Refresher{
			Source: &mock.CatalogSource{
				FetchCatalogFn: func(ctx context.Context) ([]*rfcli.Record, error) {
					return []*rfcli.Record{{Number: 1, Title: "Host Software"}, {Number: 2, Title: "Host Software"}}, nil
				},
			},
			Catalog: &mock.CatalogService{
				UpsertRecordsFn: func(ctx context.Context, records []*rfcli.Record) error {
					batches = append(batches, records)
					return nil
				},
				VersionFn: func(ctx context.Context) (int64, error) { return 3, nil },
			},
		}

		res, err := r.Refresh(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &refresh.Result{Records: 2, Version: 3}, res)
		assert.Len(t, batches, 1)
	})

	t.Run("source failure leaves catalog untouched", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		r := &refresh.Refresher{
			Source: &mock.CatalogSource{
				FetchCatalogFn: func(ctx context.Context) ([]*rfcli.Record, error) { return nil, boom },
			},
			Catalog: &mock.CatalogService{},
		}

		_, err := r.Refresh(context.Background())

		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty feed is invalid", func(t *testing.T) {
		t.Parallel()

		r := &refresh.Refresher{
			Source: &mock.CatalogSource{
				FetchCatalogFn: func(ctx context.Context) ([]*rfcli.Record, error) { return nil, nil },
			},
			Catalog: &mock.CatalogService{},
		}

		_, err := r.Refresh(context.Background())

		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
	})
}

func TestNeedsSeed(t *testing.T) {
	t.Parallel()

	empty := &mock.CatalogService{
		FindRecordsFn: func(ctx context.Context, filter rfcli.RecordFilter) ([]*rfcli.Record, error) {
			assert.Equal(t, 1, filter.Limit)
			return nil, nil
		},
	}
	ok, err := refresh.NeedsSeed(context.Background(), empty)
	require.NoError(t, err)
	assert.True(t, ok)
}
