package main

import (
	"fmt"

	"github.com/fwojciec/rfcli"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	if !c.Force {
		return rfcli.Errorf(rfcli.EINVALID, "use --force to confirm removal")
	}
	if err := deps.Catalog.DeleteRecord(deps.Ctx, c.Number); err != nil {
		return err
	}
	if err := deps.Cache.InvalidateAll(deps.Ctx, c.Number); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed RFC %d\n", c.Number)
	return nil
}
