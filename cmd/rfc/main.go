package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/bubbletea"
	"github.com/fwojciec/rfcli/fs"
	"github.com/fwojciec/rfcli/gemini"
	rfhttp "github.com/fwojciec/rfcli/http"
	"github.com/fwojciec/rfcli/index"
	rflipgloss "github.com/fwojciec/rfcli/lipgloss"
	"github.com/fwojciec/rfcli/lru"
	"github.com/fwojciec/rfcli/openai"
	rfprom "github.com/fwojciec/rfcli/prometheus"
	"github.com/fwojciec/rfcli/refresh"
	rfslog "github.com/fwojciec/rfcli/slog"
	"github.com/fwojciec/rfcli/sqlite"
	"github.com/fwojciec/rfcli/tldr"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if cerr := m.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", cerr)
		if err == nil {
			err = cerr
		}
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Empty uses DefaultConfigPath.
	ConfigPath string

	// Getenv reads environment overrides. Defaults to os.Getenv.
	Getenv func(string) string

	// Stdin feeds the interactive picker. Nil uses the process's stdin.
	Stdin io.Reader

	Config  *Config
	DB      *sqlite.DB
	Fetcher rfcli.Fetcher
	Metrics *rfprom.Metrics
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases resources and writes the metrics textfile when configured.
func (m *Main) Close() error {
	var result *multierror.Error
	if m.Metrics != nil && m.Config != nil && m.Config.Metrics.Textfile != "" {
		if err := m.Metrics.WriteTextfile(m.Config.Metrics.Textfile); err != nil {
			result = multierror.Append(result, fmt.Errorf("write metrics: %w", err))
		}
	}
	if m.Fetcher != nil {
		if err := m.Fetcher.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close fetcher: %w", err))
		}
		m.Fetcher = nil
	}
	if m.DB != nil {
		if err := m.DB.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close database: %w", err))
		}
		m.DB = nil
	}
	return result.ErrorOrNil()
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr as "error: <message>" and returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", rfcli.ErrorMessage(err))
	}
	return err
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rfc"),
		kong.Description("Search, read and summarize IETF RFCs from the terminal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return rfcli.Errorf(rfcli.EINVALID, "no command specified. Run 'rfc --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig(cli)
	if err != nil {
		return err
	}
	m.Config = cfg
	deps.Config = cfg

	logger := newLogger(stderr, cfg)
	deps.Logger = logger

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "create cache dir %s", cfg.CacheDir)
	}
	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set RFCLI_DB to use a different database path")
		return rfcli.Wrap(rfcli.EIO, err, "failed to open database at %q", cfg.DBPath)
	}

	if cfg.Metrics.Textfile != "" {
		m.Metrics = rfprom.NewMetrics()
	}

	// HTTP
	limiter := rfhttp.NewHostLimiter(cfg.Fetch.RPS)
	httpOpts := []rfhttp.Option{
		rfhttp.WithTimeout(time.Duration(cfg.Fetch.Timeout)),
		rfhttp.WithLimiter(limiter),
	}
	m.Fetcher = rfhttp.NewFetcher(cfg.Fetch.BaseURL, httpOpts...)
	var fetcher rfcli.Fetcher = rfslog.NewLoggingFetcher(m.Fetcher, logger)
	feed := rfslog.NewLoggingFeedFetcher(rfhttp.NewFeedFetcher(cfg.Fetch.IndexURL, httpOpts...), cfg.Fetch.IndexURL, logger)

	// Catalog
	catalog := sqlite.NewCatalogService(m.DB)
	source := refresh.NewSource(feed, fs.NewSnapshotStore(cfg.CacheDir), refresh.Format(cfg.Fetch.IndexFormat))
	source.Logger = logger
	source.Offline = cli.Offline
	if err := source.Snapshots.Abort(); err != nil {
		logger.Warn("failed to remove stale snapshot files", "err", err)
	}
	deps.Catalog = catalog
	deps.Refresher = &refresh.Refresher{
		Source:  rfslog.NewLoggingCatalogSource(source, logger),
		Catalog: catalog,
	}

	// Cache
	contentCache := lru.NewCache(sqlite.NewCacheStore(m.DB), cfg.Cache.MaxBytes, time.Duration(cfg.Cache.TTL))
	if err := contentCache.Open(ctx); err != nil {
		return err
	}
	var cache rfcli.ContentCache = contentCache
	deps.CacheStats = contentCache.Stats

	// Search
	var searcher rfcli.Searcher = rfslog.NewLoggingSearcher(index.NewSearcher(catalog), logger)

	if m.Metrics != nil {
		cache = rfprom.NewContentCache(cache, m.Metrics)
		fetcher = rfprom.NewFetcher(fetcher, m.Metrics)
		searcher = rfprom.NewSearcher(searcher, m.Metrics)
	}
	deps.Cache = cache
	deps.Searcher = searcher

	// Summaries
	var summarizer rfcli.Summarizer
	if cmd == "tldr" || (cmd == "prefetch" && cli.Prefetch.TLDR) {
		if cli.TLDR.Model != "" {
			cfg.Summary.Model = cli.TLDR.Model
		}
		summarizer, err = newSummarizer(ctx, cfg, logger)
		if err != nil {
			return err
		}
	}
	svc := tldr.NewService(cache, fetcher, summarizer)
	svc.Logger = logger
	svc.AttemptTimeout = time.Duration(cfg.Fetch.Timeout)
	svc.RetryDelays = cfg.RetryDelays()
	if cfg.Summary.ContextLines > 0 {
		svc.ContextLines = cfg.Summary.ContextLines
	}
	deps.TLDR = svc
	if m.Metrics != nil {
		deps.TLDR = rfprom.NewTLDRService(svc, m.Metrics)
	}

	// Terminal
	width := rflipgloss.DefaultWidth
	if f, ok := stdout.(*os.File); ok {
		width = rflipgloss.TermWidth(f)
	}
	deps.Renderer = rflipgloss.NewRenderer(stdout, width)
	picker := bubbletea.NewPicker(searcher)
	picker.Input = m.Stdin
	deps.Picker = picker
	deps.Pager = newExecPager(stdout, stderr)

	return kongCtx.Run(deps)
}

// loadConfig layers the config file, environment and global flags.
func (m *Main) loadConfig(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = m.ConfigPath
	}
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.ApplyEnv(getenv)

	if cli.DB != "" {
		cfg.DBPath = cli.DB
	}
	if cli.CacheDir != "" {
		cfg.CacheDir = cli.CacheDir
	}
	if cli.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newSummarizer builds the configured summary provider.
func newSummarizer(ctx context.Context, cfg *Config, logger *slog.Logger) (rfcli.Summarizer, error) {
	sc := cfg.Summary
	switch sc.Provider {
	case ProviderGemini:
		if sc.APIKey == "" {
			return nil, rfcli.Errorf(rfcli.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  sc.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, rfcli.Wrap(rfcli.EINVALID, err, "failed to connect to Gemini API")
		}
		s := gemini.NewSummarizer(client, sc.Model)
		if tokens, err := gemini.NewTokenCounter(s.Model()); err != nil {
			logger.Warn("tokenizer unavailable, estimating prompt size", "model", s.Model(), "err", err)
			s.Tokens = gemini.EstimateCounter{}
		} else {
			s.Tokens = tokens
		}
		return rfslog.NewLoggingSummarizer(s, s.Model(), logger), nil

	default:
		if sc.APIKey == "" {
			name := "GROQ_API_KEY"
			if sc.Provider == ProviderOpenAI {
				name = "OPENAI_API_KEY"
			}
			return nil, rfcli.Errorf(rfcli.EINVALID, "%s not set", name)
		}
		s := openai.NewSummarizer(sc.APIKey, openai.WithBaseURL(sc.BaseURL), openai.WithModel(sc.Model))
		return rfslog.NewLoggingSummarizer(s, s.Model(), logger), nil
	}
}
