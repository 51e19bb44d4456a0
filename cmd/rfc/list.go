package main

import (
	"fmt"

	"github.com/fwojciec/rfcli"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := rfcli.RecordFilter{Offset: c.Offset, Limit: c.Limit}
	if c.Status != "" {
		status := rfcli.ParseStatus(c.Status)
		filter.Status = &status
	}

	var records []*rfcli.Record
	if c.Cached {
		// Paging applies after the cache filter.
		for r, err := range deps.Catalog.Records(deps.Ctx) {
			if err != nil {
				return err
			}
			if r.Cache == nil || (filter.Status != nil && r.Status != *filter.Status) {
				continue
			}
			records = append(records, r)
		}
		records = page(records, c.Offset, c.Limit)
	} else {
		var err error
		records, err = deps.Catalog.FindRecords(deps.Ctx, filter)
		if err != nil {
			return err
		}
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stderr, "No RFCs found. Use 'rfc refresh' to download the index.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(deps.Stdout, deps.Renderer.Record(r))
	}
	return nil
}

func page[T any](s []T, offset, limit int) []T {
	if offset > len(s) {
		return nil
	}
	s = s[offset:]
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}
