package main

import (
	"fmt"
)

// Run executes the refresh command.
func (c *RefreshCmd) Run(deps *Dependencies) error {
	res, err := deps.Refresher.Refresh(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Catalog updated: %d RFCs (version %d)\n", res.Records, res.Version)
	return nil
}
