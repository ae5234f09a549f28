// Package config loads the server configuration: built-in defaults, then an
// optional YAML or JSONC file, then environment variable overrides. Command
// line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/bm25"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/storage"
)

// Limits for the number of results a query may ask for
const (
	MinTopK     = 1
	MaxTopK     = 50
	DefaultTopK = 5
)

// Config is the top-level server configuration.
type Config struct {
	StubPath string        `yaml:"stubPath"`
	Cache    CacheConfig   `yaml:"cache"`
	Search   SearchConfig  `yaml:"search"`
	Logging  LoggingConfig `yaml:"logging"`
	Metrics  MetricsConfig `yaml:"metrics"`

	// Warnings collects overrides that were ignored while loading, to be
	// logged once a logger exists
	Warnings []string `yaml:"-"`
}

// CacheConfig controls where and how the built index is persisted.
type CacheConfig struct {
	Dir     string `yaml:"dir"`
	Backend string `yaml:"backend"`
}

// SearchConfig controls ranking and result counts.
type SearchConfig struct {
	TopK            int         `yaml:"topK"`
	BM25            bm25.Params `yaml:"bm25"`
	ResultCacheSize int         `yaml:"resultCacheSize"`
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a config file (if path is not empty) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonc":
			data = jsonc.ToJSON(data)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		StubPath: filepath.Join("data", "unreal.py"),
		Cache: CacheConfig{
			Dir:     "data",
			Backend: storage.BackendFile,
		},
		Search: SearchConfig{
			TopK:            DefaultTopK,
			BM25:            bm25.DefaultParams(),
			ResultCacheSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("UEMCP_STUB_PATH"); v != "" {
		c.StubPath = v
	}
	if v := os.Getenv("UEMCP_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("UEMCP_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("UEMCP_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("RAG_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.TopK = n
		} else {
			c.warnf("invalid RAG_TOP_K=%q, using %d", v, c.Search.TopK)
		}
	}
	c.envFloat("UEMCP_BM25_K1", &c.Search.BM25.K1)
	c.envFloat("UEMCP_BM25_B", &c.Search.BM25.B)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) envFloat(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.warnf("invalid %s=%q, using %v", key, v, *dst)
		return
	}
	*dst = f
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.StubPath == "" {
		errs = append(errs, errors.New("stub path is required"))
	} else if info, err := os.Stat(c.StubPath); err != nil {
		errs = append(errs, fmt.Errorf("unreal stub file not found at %s", c.StubPath))
	} else if info.IsDir() {
		errs = append(errs, fmt.Errorf("unreal stub path %s is a directory", c.StubPath))
	}

	if c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache directory is required"))
	}
	switch c.Cache.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q (want %s or %s)",
			c.Cache.Backend, storage.BackendFile, storage.BackendSQLite))
	}

	if c.Search.TopK < MinTopK || c.Search.TopK > MaxTopK {
		errs = append(errs, fmt.Errorf("top_k must be between %d and %d, got %d", MinTopK, MaxTopK, c.Search.TopK))
	}
	if c.Search.ResultCacheSize < 0 {
		errs = append(errs, fmt.Errorf("result cache size must not be negative, got %d", c.Search.ResultCacheSize))
	}
	if err := c.Search.BM25.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
