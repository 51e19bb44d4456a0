package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if err := ensureCatalog(deps, false); err != nil {
		return err
	}

	results, err := deps.Searcher.Search(deps.Ctx, strings.Join(c.Query, " "), c.Limit)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stderr, "No matching RFCs.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintln(deps.Stdout, deps.Renderer.Result(r))
	}
	return nil
}
