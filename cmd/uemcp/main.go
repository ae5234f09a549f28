package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/catalog"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/config"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/indexer"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/logging"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/mcp"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/metrics"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/searcher"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "uemcp: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	stubPath     string
	cacheDir     string
	cacheBackend string
	topK         int
	logLevel     string
	logFormat    string
	metricsAddr  string
	query        string
	scope        string
	category     string
	showVersion  bool
}

func parseFlags(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("uemcp", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSONC config file")
	fs.StringVar(&opts.stubPath, "stub", "", "Path to the unreal.py stub file")
	fs.StringVar(&opts.cacheDir, "cache-dir", "", "Directory holding the persisted index")
	fs.StringVar(&opts.cacheBackend, "cache-backend", "", "Cache backend: file or sqlite")
	fs.IntVarP(&opts.topK, "top-k", "k", config.DefaultTopK, "Default number of results")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.StringVarP(&opts.query, "query", "q", "", "Run one query, print JSON results and exit")
	fs.StringVar(&opts.scope, "scope", string(searcher.ScopeBoth), "Query scope: functions, classes or both")
	fs.StringVar(&opts.category, "category", "", "Restrict a query to Function or Class")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

// applyFlags overrides cfg with every flag set explicitly on the command line
func applyFlags(cfg *config.Config, opts *options, fs *pflag.FlagSet) {
	if fs.Changed("stub") {
		cfg.StubPath = opts.stubPath
	}
	if fs.Changed("cache-dir") {
		cfg.Cache.Dir = opts.cacheDir
	}
	if fs.Changed("cache-backend") {
		cfg.Cache.Backend = opts.cacheBackend
	}
	if fs.Changed("top-k") {
		cfg.Search.TopK = opts.topK
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
}

func run(args []string) error {
	opts, fs, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Printf("Unreal Engine MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts, fs)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Logs go to stderr, stdout is reserved for MCP protocol
	logger, levelOK := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if !levelOK {
		logger.WithField("level", cfg.Logging.Level).Warn("Unknown log level, using info")
	}
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}
	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_mode": storage.BuildMode,
		"driver":     storage.DriverName,
	}).Info("Unreal Engine MCP server starting")

	store, err := storage.Open(cfg.Cache.Backend, cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open index cache: %w", err)
	}
	defer store.Close()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		shutdown := m.StartServer(cfg.Metrics.Addr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	idx := indexer.New(store,
		indexer.WithParams(cfg.Search.BM25),
		indexer.WithLogger(logger),
		indexer.WithMetrics(m),
	)
	handle := catalog.NewHandle(func(ctx context.Context) (*catalog.Catalog, error) {
		cat, stats, err := idx.LoadOrBuild(ctx, cfg.StubPath)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"source":    stats.Source,
			"functions": stats.FunctionsIndexed,
			"classes":   stats.ClassesIndexed,
			"duration":  stats.Duration,
		}).Info("API catalog ready")
		return cat, nil
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Warm up so the first tool call does not pay for the build
	if _, err := handle.Get(ctx); err != nil {
		return fmt.Errorf("failed to load API catalog: %w", err)
	}

	srch := searcher.New(handle,
		searcher.WithCacheSize(cfg.Search.ResultCacheSize),
		searcher.WithLogger(logger),
		searcher.WithMetrics(m),
	)

	if fs.Changed("query") {
		return runQuery(ctx, srch, opts, cfg.Search.TopK)
	}

	server := mcp.NewServer(handle, srch,
		mcp.WithLogger(logger),
		mcp.WithDefaultTopK(cfg.Search.TopK),
	)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, stopping")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}

// runQuery answers a single query on stdout
func runQuery(ctx context.Context, srch *searcher.Searcher, opts *options, topK int) error {
	scope, err := searcher.ParseScope(opts.scope)
	if err != nil {
		return err
	}

	var results interface{}
	if opts.category != "" {
		results, err = srch.SearchByCategory(ctx, opts.query, opts.category, topK)
	} else {
		results, err = srch.SearchFormatted(ctx, opts.query, topK, scope)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
