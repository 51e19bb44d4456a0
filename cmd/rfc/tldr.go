package main

import (
	"fmt"
)

// Run executes the tldr command.
func (c *TLDRCmd) Run(deps *Dependencies) error {
	if c.Number == 0 {
		if err := ensureCatalog(deps, false); err != nil {
			return err
		}
	}

	n, ok, err := choose(deps, c.Number, c.Query)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(deps.Stderr, "No RFC selected.")
		return nil
	}

	summary, err := deps.TLDR.TLDR(deps.Ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, deps.Renderer.TLDR(n, summary))
	return nil
}
