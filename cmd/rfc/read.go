package main

import (
	"fmt"

	"github.com/fwojciec/rfcli"
)

// Run executes the read command. Without a number it keeps reopening the
// picker after each document until the user aborts.
func (c *ReadCmd) Run(deps *Dependencies) error {
	if err := ensureCatalog(deps, c.Refresh); err != nil {
		return err
	}

	if c.Number != 0 {
		return c.read(deps, c.Number)
	}

	for {
		n, ok, err := choose(deps, 0, c.Query)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(deps.Stderr, "No RFC selected.")
			return nil
		}
		if err := c.read(deps, n); err != nil {
			return err
		}
	}
}

func (c *ReadCmd) read(deps *Dependencies, number int) error {
	if number < 0 {
		return rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	raw, err := deps.TLDR.Raw(deps.Ctx, number)
	if err != nil {
		return err
	}
	text := rfcli.CleanText(string(raw))
	if c.NoPager {
		_, err := fmt.Fprint(deps.Stdout, text)
		return err
	}
	return deps.Pager.Page(deps.Ctx, text)
}
