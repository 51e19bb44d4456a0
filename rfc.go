package rfcli

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// Status is the publication status of an RFC.
type Status string

// Status constants.
const (
	StatusInformational       Status = "Informational"
	StatusStandardsTrack      Status = "Standards Track"
	StatusBestCurrentPractice Status = "Best Current Practice"
	StatusExperimental        Status = "Experimental"
	StatusHistoric            Status = "Historic"
	StatusUnknown             Status = "Unknown"
)

// ParseStatus normalizes a status as spelled by the RFC Editor index feeds.
// Unrecognized values return StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFORMATIONAL":
		return StatusInformational
	case "PROPOSED STANDARD", "DRAFT STANDARD", "INTERNET STANDARD", "STANDARD", "STANDARDS TRACK":
		return StatusStandardsTrack
	case "BEST CURRENT PRACTICE", "BCP":
		return StatusBestCurrentPractice
	case "EXPERIMENTAL":
		return StatusExperimental
	case "HISTORIC":
		return StatusHistoric
	default:
		return StatusUnknown
	}
}

// PubDate is a publication date with optional month and day precision.
// A zero Month or Day means the feed did not provide it.
type PubDate struct {
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day,omitempty"`
}

// IsZero reports whether the date is unknown.
func (d PubDate) IsZero() bool {
	return d.Year == 0
}

// String formats the date at its known precision, e.g. "August 2018".
func (d PubDate) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%s %d", d.Month, d.Year)
	default:
		return fmt.Sprintf("%d %s %d", d.Day, d.Month, d.Year)
	}
}

// Record represents the catalog metadata of a single RFC.
type Record struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Date        PubDate  `json:"date"`
	Status      Status   `json:"status"`
	Obsoletes   []int    `json:"obsoletes,omitempty"`
	ObsoletedBy []int    `json:"obsoletedBy,omitempty"`
	Updates     []int    `json:"updates,omitempty"`
	UpdatedBy   []int    `json:"updatedBy,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Abstract    string   `json:"abstract,omitempty"`

	// Cache is populated by the catalog store on read and ignored on write.
	Cache *CacheInfo `json:"cache,omitempty"`
}

// CacheInfo summarizes what the content cache holds for a record.
type CacheInfo struct {
	HasBody   bool      `json:"hasBody"`
	HasTLDR   bool      `json:"hasTldr"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.Number <= 0 {
		return Errorf(EINVALID, "rfc number must be positive, got %d", r.Number)
	}
	if strings.TrimSpace(r.Title) == "" {
		return Errorf(EINVALID, "rfc %d title required", r.Number)
	}
	return nil
}

// Normalize sorts and deduplicates relation sets and defaults the status.
func (r *Record) Normalize() {
	if r.Status == "" {
		r.Status = StatusUnknown
	}
	r.Obsoletes = normalizeNumbers(r.Obsoletes)
	r.ObsoletedBy = normalizeNumbers(r.ObsoletedBy)
	r.Updates = normalizeNumbers(r.Updates)
	r.UpdatedBy = normalizeNumbers(r.UpdatedBy)
}

func normalizeNumbers(nums []int) []int {
	if len(nums) == 0 {
		return nil
	}
	out := slices.Clone(nums)
	slices.Sort(out)
	return slices.Compact(out)
}

// Label returns the conventional short name, e.g. "RFC 8446".
func (r *Record) Label() string {
	return fmt.Sprintf("RFC %d", r.Number)
}

// CatalogSnapshot is a consistent view of the catalog at a version.
type CatalogSnapshot struct {
	Version int64
	Records []*Record
}

// CatalogService represents a service for managing the RFC catalog.
// Every mutation bumps the catalog version.
type CatalogService interface {
	// UpsertRecord inserts or replaces a record by number.
	// Returns EINVALID if the record is invalid.
	UpsertRecord(ctx context.Context, record *Record) error

	// UpsertRecords inserts or replaces records in a single batch.
	// Returns EINVALID and writes nothing if any record is invalid.
	UpsertRecords(ctx context.Context, records []*Record) error

	// FindRecordByNumber retrieves a record by RFC number.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByNumber(ctx context.Context, number int) (*Record, error)

	// FindRecords retrieves records matching the filter, ordered by number.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// Records returns a lazy sequence of all records ordered by number.
	// The sequence may be iterated more than once.
	Records(ctx context.Context) iter.Seq2[*Record, error]

	// DeleteRecord permanently removes a record and its cache entries.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, number int) error

	// Version returns the current catalog version.
	Version(ctx context.Context) (int64, error)

	// Snapshot returns all records together with the version they belong to.
	Snapshot(ctx context.Context) (*CatalogSnapshot, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Status *Status `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CatalogSource provides the bulk feed of records used to seed the catalog.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]*Record, error)
}
