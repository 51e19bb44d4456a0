package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/rfcli"
	rfhttp "github.com/fwojciec/rfcli/http"
	"github.com/fwojciec/rfcli/openai"
	"github.com/fwojciec/rfcli/refresh"
	"github.com/fwojciec/rfcli/tldr"
	"github.com/pelletier/go-toml/v2"
)

// Summary providers.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const openAIBaseURL = "https://api.openai.com/v1"

// Duration is a time.Duration that reads TOML strings such as "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds settings read from the config file and environment.
type Config struct {
	DBPath   string        `toml:"db_path"`
	CacheDir string        `toml:"cache_dir"`
	Cache    CacheConfig   `toml:"cache"`
	Fetch    FetchConfig   `toml:"fetch"`
	Summary  SummaryConfig `toml:"summary"`
	Log      LogConfig     `toml:"log"`
	Metrics  MetricsConfig `toml:"metrics"`
}

// CacheConfig bounds the content cache.
type CacheConfig struct {
	MaxBytes int64    `toml:"max_bytes"`
	TTL      Duration `toml:"ttl"`
}

// FetchConfig configures RFC and index downloads.
type FetchConfig struct {
	BaseURL     string   `toml:"base_url"`
	IndexURL    string   `toml:"index_url"`
	IndexFormat string   `toml:"index_format"`
	Timeout     Duration `toml:"timeout"`
	Retries     int      `toml:"retries"`
	RPS         float64  `toml:"rps"`
}

// SummaryConfig selects the language model used for TLDRs.
type SummaryConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	BaseURL      string `toml:"base_url"`
	ContextLines int    `toml:"context_lines"`

	// APIKey is only read from the environment.
	APIKey string `toml:"-"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig configures the metrics textfile.
type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxBytes: 256 << 20,
		},
		Fetch: FetchConfig{
			BaseURL:     rfhttp.DefaultRawURL,
			IndexURL:    rfhttp.DefaultIndexXMLURL,
			IndexFormat: "xml",
			Timeout:     Duration(rfhttp.DefaultFetchTimeout),
			Retries:     len(tldr.DefaultRetryDelays()),
			RPS:         rfhttp.DefaultRPS,
		},
		Summary: SummaryConfig{
			Provider:     ProviderGroq,
			ContextLines: tldr.DefaultContextLines,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns $RFCLI_CONFIG or the per-user config file.
func DefaultConfigPath() string {
	if path := os.Getenv("RFCLI_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rfcli", "config.toml")
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, rfcli.Wrap(rfcli.EIO, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, rfcli.Wrap(rfcli.EINVALID, err, "parse config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("RFCLI_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("RFCLI_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	switch c.Summary.Provider {
	case ProviderGemini:
		c.Summary.APIKey = getenv("GEMINI_API_KEY")
	case ProviderOpenAI:
		c.Summary.APIKey = getenv("OPENAI_API_KEY")
	default:
		c.Summary.APIKey = getenv("GROQ_API_KEY")
	}
}

// Finalize fills derived paths and validates the result.
func (c *Config) Finalize() error {
	if c.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = "."
		}
		c.CacheDir = filepath.Join(dir, "rfcli")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.CacheDir, "rfcli.db")
	}

	c.Summary.Provider = strings.ToLower(strings.TrimSpace(c.Summary.Provider))
	switch c.Summary.Provider {
	case "":
		c.Summary.Provider = ProviderGroq
	case ProviderGroq, ProviderGemini:
	case ProviderOpenAI:
		if c.Summary.BaseURL == "" {
			c.Summary.BaseURL = openAIBaseURL
		}
	default:
		return rfcli.Errorf(rfcli.EINVALID, "unknown summary provider %q", c.Summary.Provider)
	}
	if c.Summary.Provider == ProviderGroq && c.Summary.BaseURL == "" {
		c.Summary.BaseURL = openai.DefaultBaseURL
	}

	if c.Cache.MaxBytes < 0 {
		return rfcli.Errorf(rfcli.EINVALID, "cache.max_bytes must not be negative")
	}
	if c.Fetch.Retries < 0 {
		return rfcli.Errorf(rfcli.EINVALID, "fetch.retries must not be negative")
	}
	if !strings.Contains(c.Fetch.BaseURL, "%d") {
		return rfcli.Errorf(rfcli.EINVALID, "fetch.base_url must contain %%d for the rfc number")
	}
	format, err := refresh.ParseFormat(c.Fetch.IndexFormat)
	if err != nil {
		return err
	}
	c.Fetch.IndexFormat = string(format)
	if format == refresh.FormatText && c.Fetch.IndexURL == rfhttp.DefaultIndexXMLURL {
		c.Fetch.IndexURL = rfhttp.DefaultIndexTextURL
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, rfcli.Errorf(rfcli.EINVALID, "invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// RetryDelays returns Fetch.Retries exponential delays starting at 500ms.
func (c *Config) RetryDelays() []time.Duration {
	delays := make([]time.Duration, c.Fetch.Retries)
	d := 500 * time.Millisecond
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}
