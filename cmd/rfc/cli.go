package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/rfcli"
	rflipgloss "github.com/fwojciec/rfcli/lipgloss"
	"github.com/fwojciec/rfcli/refresh"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Catalog    rfcli.CatalogService
	Cache      rfcli.ContentCache
	CacheStats func() rfcli.CacheStats
	Searcher   rfcli.Searcher
	TLDR       rfcli.TLDRService
	Refresher  CatalogRefresher
	Picker     rfcli.Picker
	Pager      Pager
	Renderer   *rflipgloss.Renderer
}

// CatalogRefresher reloads the catalog from the index feed.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (*refresh.Result, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `help:"Config file path" env:"RFCLI_CONFIG" type:"path"`
	DB       string `help:"Database path (overrides config)" type:"path"`
	CacheDir string `name:"cache-dir" help:"Directory for the database and index snapshots" type:"path"`
	Verbose  bool   `short:"v" help:"Enable debug logging"`
	Offline  bool   `help:"Never download the index feed; use the local snapshot"`

	Search   SearchCmd   `cmd:"" help:"Search the catalog"`
	Read     ReadCmd     `cmd:"" help:"Read an RFC in a pager"`
	TLDR     TLDRCmd     `cmd:"" name:"tldr" help:"Summarize an RFC"`
	List     ListCmd     `cmd:"" help:"List catalog records"`
	Refresh  RefreshCmd  `cmd:"" help:"Download the RFC index and update the catalog"`
	Remove   RemoveCmd   `cmd:"" help:"Remove an RFC from the catalog and cache"`
	Prefetch PrefetchCmd `cmd:"" help:"Download RFCs into the cache"`
	Cache    CacheCmd    `cmd:"" help:"Inspect and manage the content cache"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" optional:"" help:"Query terms"`
	Limit int      `short:"n" default:"20" help:"Maximum number of results (0 for all)"`
	JSON  bool     `help:"Print results as JSON"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Number  int    `arg:"" optional:"" help:"RFC number (opens the picker when omitted)"`
	Query   string `short:"q" help:"Initial picker query"`
	Refresh bool   `short:"r" help:"Update the index before searching"`
	NoPager bool   `name:"no-pager" help:"Write to stdout instead of a pager"`
}

// TLDRCmd is the "tldr" subcommand.
type TLDRCmd struct {
	Number int    `arg:"" optional:"" help:"RFC number (opens the picker when omitted)"`
	Query  string `short:"q" help:"Initial picker query"`
	Model  string `short:"m" help:"Model override"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Status string `help:"Only records with this status, e.g. \"Standards Track\""`
	Cached bool   `help:"Only records with cached content"`
	Limit  int    `short:"n" help:"Maximum number of records"`
	Offset int    `help:"Records to skip"`
}

// RefreshCmd is the "refresh" subcommand.
type RefreshCmd struct{}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Number int  `arg:"" help:"RFC number"`
	Force  bool `help:"Confirm removal"`
}

// PrefetchCmd is the "prefetch" subcommand.
type PrefetchCmd struct {
	Numbers     []int `arg:"" help:"RFC numbers"`
	Concurrency int   `short:"c" default:"4" help:"Concurrent download limit"`
	TLDR        bool  `name:"tldr" help:"Also derive TLDRs"`
}

// CacheCmd groups the cache subcommands.
type CacheCmd struct {
	Stats      CacheStatsCmd      `cmd:"" help:"Show cache occupancy"`
	Invalidate CacheInvalidateCmd `cmd:"" help:"Drop cached content for an RFC"`
}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct{}

// CacheInvalidateCmd is the "cache invalidate" subcommand.
type CacheInvalidateCmd struct {
	Number int    `arg:"" help:"RFC number"`
	Kind   string `enum:"raw,tldr,all" default:"all" help:"Entry kind: raw, tldr or all"`
}
