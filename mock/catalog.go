package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/rfcli"
)

var _ rfcli.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of rfcli.CatalogService.
type CatalogService struct {
	UpsertRecordFn       func(ctx context.Context, record *rfcli.Record) error
	UpsertRecordsFn      func(ctx context.Context, records []*rfcli.Record) error
	FindRecordByNumberFn func(ctx context.Context, number int) (*rfcli.Record, error)
	FindRecordsFn        func(ctx context.Context, filter rfcli.RecordFilter) ([]*rfcli.Record, error)
	RecordsFn            func(ctx context.Context) iter.Seq2[*rfcli.Record, error]
	DeleteRecordFn       func(ctx context.Context, number int) error
	VersionFn            func(ctx context.Context) (int64, error)
	SnapshotFn           func(ctx context.Context) (*rfcli.CatalogSnapshot, error)
}

func (s *CatalogService) UpsertRecord(ctx context.Context, record *rfcli.Record) error {
	return s.UpsertRecordFn(ctx, record)
}

func (s *CatalogService) UpsertRecords(ctx context.Context, records []*rfcli.Record) error {
	return s.UpsertRecordsFn(ctx, records)
}

func (s *CatalogService) FindRecordByNumber(ctx context.Context, number int) (*rfcli.Record, error) {
	return s.FindRecordByNumberFn(ctx, number)
}

func (s *CatalogService) FindRecords(ctx context.Context, filter rfcli.RecordFilter) ([]*rfcli.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *CatalogService) Records(ctx context.Context) iter.Seq2[*rfcli.Record, error] {
	return s.RecordsFn(ctx)
}

func (s *CatalogService) DeleteRecord(ctx context.Context, number int) error {
	return s.DeleteRecordFn(ctx, number)
}

func (s *CatalogService) Version(ctx context.Context) (int64, error) {
	return s.VersionFn(ctx)
}

func (s *CatalogService) Snapshot(ctx context.Context) (*rfcli.CatalogSnapshot, error) {
	return s.SnapshotFn(ctx)
}

var _ rfcli.CatalogSource = (*CatalogSource)(nil)

// CatalogSource is a mock implementation of rfcli.CatalogSource.
type CatalogSource struct {
	FetchCatalogFn func(ctx context.Context) ([]*rfcli.Record, error)
}

func (s *CatalogSource) FetchCatalog(ctx context.Context) ([]*rfcli.Record, error) {
	return s.FetchCatalogFn(ctx)
}
