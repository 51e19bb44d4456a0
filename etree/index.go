// Package etree parses the RFC Editor's XML index (rfc-index.xml).
package etree

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/rfcli"
)

// ParseIndex parses rfc-index.xml into catalog records. Entries other than
// rfc-entry (BCP, STD, FYI and not-issued entries) are skipped, as are
// entries without a title and relation references to non-RFC documents.
func ParseIndex(data []byte) ([]*rfcli.Record, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, rfcli.Wrap(rfcli.EINVALID, err, "parse rfc index xml")
	}

	root := doc.Root()
	if root == nil || root.Tag != "rfc-index" {
		return nil, rfcli.Errorf(rfcli.EINVALID, "not an rfc index document")
	}

	var records []*rfcli.Record
	for _, el := range root.SelectElements("rfc-entry") {
		rec := parseEntry(el)
		if rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseEntry(el *etree.Element) *rfcli.Record {
	number, ok := parseDocID(childText(el, "doc-id"))
	if !ok {
		return nil
	}

	rec := &rfcli.Record{
		Number:      number,
		Title:       collapse(childText(el, "title")),
		Status:      rfcli.ParseStatus(childText(el, "current-status")),
		Obsoletes:   docRefs(el.SelectElement("obsoletes")),
		ObsoletedBy: docRefs(el.SelectElement("obsoleted-by")),
		Updates:     docRefs(el.SelectElement("updates")),
		UpdatedBy:   docRefs(el.SelectElement("updated-by")),
	}

	if date := el.SelectElement("date"); date != nil {
		rec.Date.Year, _ = strconv.Atoi(childText(date, "year"))
		if t, err := time.Parse("January", childText(date, "month")); err == nil {
			rec.Date.Month = t.Month()
		}
		rec.Date.Day, _ = strconv.Atoi(childText(date, "day"))
	}

	if kws := el.SelectElement("keywords"); kws != nil {
		for _, kw := range kws.SelectElements("kw") {
			if s := collapse(kw.Text()); s != "" {
				rec.Keywords = append(rec.Keywords, s)
			}
		}
	}

	if abstract := el.SelectElement("abstract"); abstract != nil {
		var paras []string
		for _, p := range abstract.SelectElements("p") {
			if s := collapse(p.Text()); s != "" {
				paras = append(paras, s)
			}
		}
		rec.Abstract = strings.Join(paras, "\n\n")
	}

	if rec.Validate() != nil {
		return nil
	}
	rec.Normalize()
	return rec
}

// docRefs collects the RFC numbers referenced by an obsoletes/updates list.
func docRefs(el *etree.Element) []int {
	if el == nil {
		return nil
	}
	var refs []int
	for _, id := range el.SelectElements("doc-id") {
		if n, ok := parseDocID(id.Text()); ok {
			refs = append(refs, n)
		}
	}
	return refs
}

// parseDocID parses "RFC0793" style identifiers.
func parseDocID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "RFC") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimLeft(s[len("RFC"):], "0"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
