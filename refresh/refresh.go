// Package refresh seeds and updates the RFC catalog from the RFC Editor's
// index feed. The downloaded feed is kept as a local snapshot so the
// catalog can be rebuilt offline.
package refresh

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/etree"
	"github.com/fwojciec/rfcli/fs"
)

// Format identifies the flavor of the index feed.
type Format string

// Format constants.
const (
	FormatXML  Format = "xml"
	FormatText Format = "txt"
)

// ParseFormat validates a configured format. An empty string selects FormatXML.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatXML:
		return FormatXML, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", rfcli.Errorf(rfcli.EINVALID, "unknown index format %q", s)
	}
}

// SnapshotName returns the file name the feed is stored under.
func (f Format) SnapshotName() string {
	return "rfc-index." + string(f)
}

// Parse decodes feed data in the given format.
func Parse(format Format, data []byte) ([]*rfcli.Record, error) {
	switch format {
	case FormatXML:
		return etree.ParseIndex(data)
	case FormatText:
		return rfcli.ParseIndexText(bytes.NewReader(data))
	default:
		return nil, rfcli.Errorf(rfcli.EINVALID, "unknown index format %q", format)
	}
}

var _ rfcli.CatalogSource = (*Source)(nil)

// Source implements rfcli.CatalogSource on top of a feed fetcher and a
// local snapshot store.
type Source struct {
	Feed      rfcli.FeedFetcher
	Snapshots *fs.SnapshotStore
	Format    Format
	Logger    *slog.Logger

	// Offline makes the source read only the local snapshot.
	Offline bool
}

// NewSource creates a Source for feed stored under snapshots.
func NewSource(feed rfcli.FeedFetcher, snapshots *fs.SnapshotStore, format Format) *Source {
	return &Source{
		Feed:      feed,
		Snapshots: snapshots,
		Format:    format,
		Logger:    slog.New(slog.DiscardHandler),
	}
}

// FetchCatalog downloads the feed, saves it as the local snapshot and
// parses it. When the download fails for a reason other than cancellation
// the previous snapshot is used instead, if one exists.
func (s *Source) FetchCatalog(ctx context.Context) ([]*rfcli.Record, error) {
	name := s.Format.SnapshotName()

	if s.Offline {
		return s.loadSnapshot(name)
	}

	data, err := s.Feed.FetchFeed(ctx)
	if err != nil {
		switch rfcli.ErrorCode(err) {
		case rfcli.ECANCELED, rfcli.EINVALID:
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		s.Logger.Warn("feed download failed, using local snapshot", "snapshot", name, "err", err)
		records, serr := s.loadSnapshot(name)
		if serr != nil {
			return nil, err
		}
		return records, nil
	}

	records, err := Parse(s.Format, data)
	if err != nil {
		return nil, err
	}
	if _, err := s.Snapshots.Save(ctx, name, data); err != nil {
		return nil, err
	}
	s.Logger.Debug("feed snapshot saved", "snapshot", name, "bytes", len(data), "records", len(records))
	return records, nil
}

func (s *Source) loadSnapshot(name string) ([]*rfcli.Record, error) {
	data, err := s.Snapshots.Load(name)
	if err != nil {
		return nil, err
	}
	return Parse(s.Format, data)
}

// Result reports the outcome of a catalog refresh.
type Result struct {
	Records int
	Version int64
}

// Refresher copies records from a source into the catalog.
type Refresher struct {
	Source  rfcli.CatalogSource
	Catalog rfcli.CatalogService
}

// Refresh fetches every record from the source and upserts them as one
// batch. The catalog is left untouched when the source fails.
func (r *Refresher) Refresh(ctx context.Context) (*Result, error) {
	records, err := r.Source.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, rfcli.Errorf(rfcli.EINVALID, "index feed contains no records")
	}
	if err := r.Catalog.UpsertRecords(ctx, records); err != nil {
		return nil, err
	}
	version, err := r.Catalog.Version(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Records: len(records), Version: version}, nil
}

// NeedsSeed reports whether the catalog has never been populated.
func NeedsSeed(ctx context.Context, catalog rfcli.CatalogService) (bool, error) {
	records, err := catalog.FindRecords(ctx, rfcli.RecordFilter{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(records) == 0, nil
}
