package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/rfcli"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Run executes the prefetch command. Failures do not stop the remaining
// downloads; they are reported together at the end.
func (c *PrefetchCmd) Run(deps *Dependencies) error {
	if c.Concurrency < 1 {
		return rfcli.Errorf(rfcli.EINVALID, "concurrency must be at least 1")
	}
	for _, n := range c.Numbers {
		if n <= 0 {
			return rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", n)
		}
	}

	var (
		mu     sync.Mutex
		errs   *multierror.Error
		cached atomic.Int32
	)

	var g errgroup.Group
	g.SetLimit(c.Concurrency)
	for _, n := range c.Numbers {
		g.Go(func() error {
			var err error
			if c.TLDR {
				_, err = deps.TLDR.TLDR(deps.Ctx, n)
			} else {
				_, err = deps.TLDR.Raw(deps.Ctx, n)
			}
			if err != nil {
				fmt.Fprintf(deps.Stderr, "RFC %d: %s\n", n, rfcli.ErrorMessage(err))
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("rfc %d: %w", n, err))
				mu.Unlock()
				return nil
			}
			cached.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(deps.Stdout, "Cached %d of %d RFCs\n", cached.Load(), len(c.Numbers))
	if deps.Ctx.Err() != nil {
		return deps.Ctx.Err()
	}
	return errs.ErrorOrNil()
}
