// Package index builds the in-memory search index over the RFC catalog and
// serves fuzzy queries against it.
package index

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/bloom"
	"github.com/fwojciec/rfcli/fuzzy"
)

// ExcerptRunes bounds how much of an abstract is indexed.
const ExcerptRunes = 240

// Score adjustments applied on top of the fuzzy kernel.
const (
	boostExactNumber  = 10000
	boostNumberPrefix = 5000
	bonusExactToken   = 20
	excerptDivisor    = 2
)

var numericQuery = regexp.MustCompile(`^(?i)\s*(?:rfc\s*)?0*(\d+)\s*$`)

// Entry is the searchable form of one record.
type Entry struct {
	Number  int
	Title   string
	Excerpt string
	Tokens  []string

	id      string
	title   *fuzzy.Candidate
	excerpt *fuzzy.Candidate
}

// Index is an immutable snapshot of the catalog prepared for search.
type Index struct {
	version int64
	entries []Entry
	tokens  *bloom.Filter
}

// Build creates an index from a catalog snapshot.
func Build(snap *rfcli.CatalogSnapshot) *Index {
	entries := make([]Entry, 0, len(snap.Records))
	total := 0
	for _, r := range snap.Records {
		e := newEntry(r)
		total += len(e.Tokens)
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Number, b.Number) })

	filter := bloom.NewFilter(uint(total), 0.01)
	for _, e := range entries {
		for _, tok := range e.Tokens {
			filter.Add(tok)
		}
	}
	return &Index{version: snap.Version, entries: entries, tokens: filter}
}

func newEntry(r *rfcli.Record) Entry {
	id := strconv.Itoa(r.Number)
	e := Entry{Number: r.Number, Title: r.Title, id: id}

	var excerpt strings.Builder
	excerpt.WriteString(strings.Join(r.Keywords, ", "))
	if r.Abstract != "" {
		if excerpt.Len() > 0 {
			excerpt.WriteString(" ")
		}
		abstract := []rune(strings.Join(strings.Fields(r.Abstract), " "))
		if len(abstract) > ExcerptRunes {
			abstract = abstract[:ExcerptRunes]
		}
		excerpt.WriteString(string(abstract))
	}
	e.Excerpt = excerpt.String()
	e.title = fuzzy.NewCandidate(e.Title)
	if e.Excerpt != "" {
		e.excerpt = fuzzy.NewCandidate(e.Excerpt)
	}

	tokens := []string{id, "rfc" + id}
	tokens = append(tokens, Tokenize(r.Title)...)
	tokens = append(tokens, Tokenize(e.Excerpt)...)
	e.Tokens = dedupe(tokens)
	return e
}

// Version returns the catalog version the index was built from.
func (ix *Index) Version() int64 {
	return ix.version
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Entries returns the indexed entries ordered by number.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// IsStale reports whether the index must be rebuilt to serve version.
// A nil index is always stale.
func (ix *Index) IsStale(version int64) bool {
	return ix == nil || ix.version != version
}

// MayContainToken reports whether any record might hold token.
func (ix *Index) MayContainToken(token string) bool {
	return ix.tokens.MayContain(token)
}

// Search ranks entries against query. An empty query lists every entry in
// number order. A limit of zero or less returns every match.
func (ix *Index) Search(query string, limit int) []rfcli.QueryResult {
	pattern := fuzzy.Normalize(query)
	if len(pattern) == 0 {
		return ix.browse(limit)
	}

	var number string
	if m := numericQuery.FindStringSubmatch(query); m != nil {
		number = m[1]
	}

	var queryTokens []string
	for _, tok := range Tokenize(query) {
		if ix.MayContainToken(tok) {
			queryTokens = append(queryTokens, tok)
		}
	}

	var mt fuzzy.Matcher
	var results []rfcli.QueryResult
	for i := range ix.entries {
		if res, ok := ix.entries[i].match(&mt, pattern, number, queryTokens); ok {
			results = append(results, res)
		}
	}

	slices.SortFunc(results, func(a, b rfcli.QueryResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (ix *Index) browse(limit int) []rfcli.QueryResult {
	n := len(ix.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]rfcli.QueryResult, n)
	for i := range results {
		results[i] = rfcli.QueryResult{Number: ix.entries[i].Number, Title: ix.entries[i].Title}
	}
	return results
}

// match scores one entry. Title matches beat excerpt matches; numeric
// queries also match identifiers equal to or starting with the number.
func (e *Entry) match(mt *fuzzy.Matcher, pattern []rune, number string, queryTokens []string) (rfcli.QueryResult, bool) {
	res := rfcli.QueryResult{Number: e.Number, Title: e.Title}
	matched := false

	if s, pos, ok := mt.Match(pattern, e.title); ok {
		res.Score, res.Spans, matched = s, fuzzy.Spans(pos), true
	} else if e.excerpt != nil {
		if s, pos, ok := mt.Match(pattern, e.excerpt); ok {
			res.Score, res.Spans, res.InExcerpt, matched = s/excerptDivisor, fuzzy.Spans(pos), true, true
		}
	}

	if number != "" {
		s := 0
		switch {
		case e.id == number:
			s = boostExactNumber
		case strings.HasPrefix(e.id, number):
			s = boostNumberPrefix
		}
		if s > 0 && (!matched || s > res.Score) {
			res.Score, res.Spans, res.InExcerpt = s, nil, false
			matched = true
		}
	}

	if !matched {
		return rfcli.QueryResult{}, false
	}
	for _, tok := range queryTokens {
		if slices.Contains(e.Tokens, tok) {
			res.Score += bonusExactToken
		}
	}
	return res, true
}

// Tokenize lower-cases s and splits it on non-alphanumeric boundaries.
// Words mixing letters and digits also yield their letter and digit runs,
// so "RFC8446" produces "rfc8446", "rfc" and "8446".
func Tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, w := range words {
		tokens = append(tokens, w)
		runs := splitRuns(w)
		if len(runs) > 1 {
			tokens = append(tokens, runs...)
		}
	}
	return dedupe(tokens)
}

// splitRuns splits a word into maximal letter runs and digit runs.
func splitRuns(w string) []string {
	var runs []string
	start := 0
	prevDigit := false
	for i, r := range w {
		digit := unicode.IsDigit(r)
		if i > 0 && digit != prevDigit {
			runs = append(runs, w[start:i])
			start = i
		}
		prevDigit = digit
	}
	return append(runs, w[start:])
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
