package rfcli

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	indexGroupRe  = regexp.MustCompile(`\((Format|Obsoletes|Obsoleted by|Updates|Updated by|Also|Status|Stream|DOI):?\s*([^)]*)\)`)
	indexRefRe    = regexp.MustCompile(`RFC0*(\d+)`)
	indexDateRe   = regexp.MustCompile(`(?:(\d{1,2})\s+)?(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\.?\s*$`)
	indexAuthorRe = regexp.MustCompile(`\.\s+[A-Z]\.`)
	entryStartRe  = regexp.MustCompile(`^(\d{4,5})\s+(.*)$`)
)

// ParseIndexText parses the RFC Editor's plain-text index (rfc-index.txt).
// Entries start with the RFC number in the first column and continue on
// indented lines. "Not Issued" entries are skipped.
func ParseIndexText(r io.Reader) ([]*Record, error) {
	var records []*Record
	var entry strings.Builder

	flush := func() {
		if entry.Len() == 0 {
			return
		}
		if rec := parseIndexEntry(entry.String()); rec != nil {
			records = append(records, rec)
		}
		entry.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case line[0] >= '0' && line[0] <= '9':
			flush()
			entry.WriteString(trimmed)
		case entry.Len() > 0:
			entry.WriteByte(' ')
			entry.WriteString(trimmed)
		}
	}
	flush()

	if err := sc.Err(); err != nil {
		return nil, Wrap(EIO, err, "read rfc index")
	}
	return records, nil
}

// parseIndexEntry parses a single joined index entry. Returns nil for
// entries that are not RFC records.
func parseIndexEntry(s string) *Record {
	m := entryStartRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	number, err := strconv.Atoi(m[1])
	if err != nil || number <= 0 {
		return nil
	}

	rec := &Record{Number: number, Status: StatusUnknown}
	body := m[2]

	for _, g := range indexGroupRe.FindAllStringSubmatch(body, -1) {
		switch g[1] {
		case "Obsoletes":
			rec.Obsoletes = parseRefs(g[2])
		case "Obsoleted by":
			rec.ObsoletedBy = parseRefs(g[2])
		case "Updates":
			rec.Updates = parseRefs(g[2])
		case "Updated by":
			rec.UpdatedBy = parseRefs(g[2])
		case "Status":
			rec.Status = ParseStatus(g[2])
		}
	}
	body = strings.TrimSpace(indexGroupRe.ReplaceAllString(body, ""))

	if dm := indexDateRe.FindStringSubmatchIndex(body); dm != nil {
		rec.Date = parseIndexDate(body, dm)
		body = strings.TrimSpace(body[:dm[0]])
	}

	rec.Title = indexTitle(body)
	if rec.Title == "" || strings.EqualFold(rec.Title, "Not Issued") {
		return nil
	}
	rec.Normalize()
	return rec
}

func parseIndexDate(s string, idx []int) PubDate {
	var d PubDate
	if idx[2] >= 0 {
		d.Day, _ = strconv.Atoi(s[idx[2]:idx[3]])
	}
	if t, err := time.Parse("January", s[idx[4]:idx[5]]); err == nil {
		d.Month = t.Month()
	}
	d.Year, _ = strconv.Atoi(s[idx[6]:idx[7]])
	return d
}

// indexTitle extracts the title from "Title. A. Author, B. Author." text.
// Authors are recognized by a leading initial; organizational authors
// fall back to the first sentence break.
func indexTitle(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if loc := indexAuthorRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[:loc[0]])
	}
	if i := strings.Index(s, ". "); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func parseRefs(s string) []int {
	var refs []int
	for _, m := range indexRefRe.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			refs = append(refs, n)
		}
	}
	return refs
}
