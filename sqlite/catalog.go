package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/fwojciec/rfcli"
)

// Compile-time interface verification.
var _ rfcli.CatalogService = (*CatalogService)(nil)

// recordsPageSize is the number of rows Records reads per query.
const recordsPageSize = 256

const recordColumns = `
	r.number, r.title, r.pub_year, r.pub_month, r.pub_day, r.status,
	r.obsoletes, r.obsoleted_by, r.updates, r.updated_by, r.keywords, r.abstract,
	EXISTS(SELECT 1 FROM cache_entries c WHERE c.number = r.number AND c.kind = 'raw'),
	EXISTS(SELECT 1 FROM cache_entries c WHERE c.number = r.number AND c.kind = 'tldr'),
	COALESCE((SELECT c.created_at FROM cache_entries c WHERE c.number = r.number AND c.kind = 'raw'), 0)`

// CatalogService implements rfcli.CatalogService using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// UpsertRecord inserts or replaces a record.
func (s *CatalogService) UpsertRecord(ctx context.Context, record *rfcli.Record) error {
	return s.UpsertRecords(ctx, []*rfcli.Record{record})
}

// UpsertRecords inserts or replaces records in one transaction.
func (s *CatalogService) UpsertRecords(ctx context.Context, records []*rfcli.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "begin catalog upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rfcs (number, title, pub_year, pub_month, pub_day, status,
			obsoletes, obsoleted_by, updates, updated_by, keywords, abstract, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			title = excluded.title,
			pub_year = excluded.pub_year,
			pub_month = excluded.pub_month,
			pub_day = excluded.pub_day,
			status = excluded.status,
			obsoletes = excluded.obsoletes,
			obsoleted_by = excluded.obsoleted_by,
			updates = excluded.updates,
			updated_by = excluded.updated_by,
			keywords = excluded.keywords,
			abstract = excluded.abstract,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "prepare catalog upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, record := range records {
		record.Normalize()
		args, err := recordArgs(record)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, append(args, now)...); err != nil {
			return rfcli.Wrap(rfcli.EIO, err, "upsert rfc %d", record.Number)
		}
	}

	if err := bumpVersion(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "commit catalog upsert")
	}
	return nil
}

// FindRecordByNumber retrieves a record by RFC number.
func (s *CatalogService) FindRecordByNumber(ctx context.Context, number int) (*rfcli.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM rfcs r WHERE r.number = ?", number)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rfcli.Errorf(rfcli.ENOTFOUND, "rfc %d not found", number)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindRecords retrieves records matching the filter, ordered by number.
func (s *CatalogService) FindRecords(ctx context.Context, filter rfcli.RecordFilter) ([]*rfcli.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM rfcs r WHERE 1=1")

	if filter.Status != nil {
		query.WriteString(" AND r.status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY r.number ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	return s.queryRecords(ctx, query.String(), args...)
}

// Records returns all records in number order. Rows are read in pages so
// the single connection is free between pages.
func (s *CatalogService) Records(ctx context.Context) iter.Seq2[*rfcli.Record, error] {
	return func(yield func(*rfcli.Record, error) bool) {
		after := 0
		for {
			page, err := s.queryRecords(ctx,
				"SELECT "+recordColumns+" FROM rfcs r WHERE r.number > ? ORDER BY r.number ASC LIMIT ?",
				after, recordsPageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, record := range page {
				if !yield(record, nil) {
					return
				}
			}
			if len(page) < recordsPageSize {
				return
			}
			after = page[len(page)-1].Number
		}
	}
}

// DeleteRecord removes a record and its cache entries in one transaction.
func (s *CatalogService) DeleteRecord(ctx context.Context, number int) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "begin catalog delete")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM rfcs WHERE number = ?", number)
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "delete rfc %d", number)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return rfcli.Errorf(rfcli.ENOTFOUND, "rfc %d not found", number)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE number = ?", number); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "delete cache entries for rfc %d", number)
	}
	if err := bumpVersion(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "commit catalog delete")
	}
	return nil
}

// Version returns the current catalog version.
func (s *CatalogService) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'catalog_version'").Scan(&version)
	return version, err
}

// Snapshot reads the version and every record in a single transaction.
func (s *CatalogService) Snapshot(ctx context.Context) (*rfcli.CatalogSnapshot, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var snap rfcli.CatalogSnapshot
	if err := tx.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'catalog_version'").Scan(&snap.Version); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, "SELECT "+recordColumns+" FROM rfcs r ORDER BY r.number ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		snap.Records = append(snap.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *CatalogService) queryRecords(ctx context.Context, query string, args ...any) ([]*rfcli.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*rfcli.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func bumpVersion(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "UPDATE meta SET value = value + 1 WHERE key = 'catalog_version'"); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "bump catalog version")
	}
	return nil
}

func recordArgs(r *rfcli.Record) ([]any, error) {
	lists := make([]string, 0, 5)
	for _, nums := range [][]int{r.Obsoletes, r.ObsoletedBy, r.Updates, r.UpdatedBy} {
		s, err := encodeList(nums)
		if err != nil {
			return nil, err
		}
		lists = append(lists, s)
	}
	keywords, err := encodeList(r.Keywords)
	if err != nil {
		return nil, err
	}
	return []any{
		r.Number, r.Title, r.Date.Year, int(r.Date.Month), r.Date.Day, string(r.Status),
		lists[0], lists[1], lists[2], lists[3], keywords, r.Abstract,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*rfcli.Record, error) {
	var r rfcli.Record
	var month int
	var status string
	var obsoletes, obsoletedBy, updates, updatedBy, keywords string
	var hasBody, hasTLDR bool
	var fetchedAt int64

	if err := row.Scan(&r.Number, &r.Title, &r.Date.Year, &month, &r.Date.Day, &status,
		&obsoletes, &obsoletedBy, &updates, &updatedBy, &keywords, &r.Abstract,
		&hasBody, &hasTLDR, &fetchedAt); err != nil {
		return nil, err
	}
	r.Date.Month = time.Month(month)
	r.Status = rfcli.Status(status)

	var err error
	if r.Obsoletes, err = decodeList[int](obsoletes, "obsoletes"); err != nil {
		return nil, err
	}
	if r.ObsoletedBy, err = decodeList[int](obsoletedBy, "obsoleted_by"); err != nil {
		return nil, err
	}
	if r.Updates, err = decodeList[int](updates, "updates"); err != nil {
		return nil, err
	}
	if r.UpdatedBy, err = decodeList[int](updatedBy, "updated_by"); err != nil {
		return nil, err
	}
	if r.Keywords, err = decodeList[string](keywords, "keywords"); err != nil {
		return nil, err
	}

	if hasBody || hasTLDR {
		r.Cache = &rfcli.CacheInfo{
			HasBody:   hasBody,
			HasTLDR:   hasTLDR,
			FetchedAt: unixNano(fetchedAt),
		}
	}
	return &r, nil
}
