package main

import (
	"fmt"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/refresh"
)

// ensureCatalog downloads the index when the catalog is empty or force is set.
func ensureCatalog(deps *Dependencies, force bool) error {
	if !force {
		empty, err := refresh.NeedsSeed(deps.Ctx, deps.Catalog)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
	}
	fmt.Fprintln(deps.Stderr, "Downloading RFC index...")
	res, err := deps.Refresher.Refresh(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stderr, "Indexed %d RFCs\n", res.Records)
	return nil
}

// choose returns number when set and otherwise asks the picker.
func choose(deps *Dependencies, number int, query string) (int, bool, error) {
	if number < 0 {
		return 0, false, rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	if number > 0 {
		return number, true, nil
	}
	return deps.Picker.Pick(deps.Ctx, query)
}
