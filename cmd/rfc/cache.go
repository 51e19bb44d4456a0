package main

import (
	"fmt"

	"github.com/fwojciec/rfcli"
)

// Run executes the cache stats command.
func (c *CacheStatsCmd) Run(deps *Dependencies) error {
	stats := deps.CacheStats()
	fmt.Fprintf(deps.Stdout, "entries:   %d\n", stats.Entries)
	fmt.Fprintf(deps.Stdout, "bytes:     %s\n", formatBytes(stats.Bytes))
	if deps.Config.Cache.MaxBytes > 0 {
		fmt.Fprintf(deps.Stdout, "limit:     %s\n", formatBytes(deps.Config.Cache.MaxBytes))
	}
	fmt.Fprintf(deps.Stdout, "database:  %s\n", deps.Config.DBPath)
	return nil
}

// Run executes the cache invalidate command.
func (c *CacheInvalidateCmd) Run(deps *Dependencies) error {
	if c.Number <= 0 {
		return rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", c.Number)
	}
	var err error
	if c.Kind == "all" || c.Kind == "" {
		err = deps.Cache.InvalidateAll(deps.Ctx, c.Number)
	} else {
		err = deps.Cache.Invalidate(deps.Ctx, c.Number, rfcli.CacheKind(c.Kind))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Invalidated RFC %d (%s)\n", c.Number, c.kind())
	return nil
}

func (c *CacheInvalidateCmd) kind() string {
	if c.Kind == "" {
		return "all"
	}
	return c.Kind
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
