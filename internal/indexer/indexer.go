package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/bm25"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/catalog"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/corpus"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/logging"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/metrics"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/parser"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/storage"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// errCacheStale means the cache exists but was built from another version of
// the source
var errCacheStale = errors.New("cache is stale")

// Indexer coordinates the pipeline: parse -> corpus -> rank -> persist
type Indexer struct {
	parser  *parser.Parser
	store   storage.Store
	params  bm25.Params
	logger  logrus.FieldLogger
	metrics *metrics.Metrics

	lock IndexLock
}

// Option configures an Indexer
type Option func(*Indexer)

// WithParams sets the BM25 parameters used for new and restored indices
func WithParams(params bm25.Params) Option {
	return func(idx *Indexer) { idx.params = params }
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(idx *Indexer) { idx.logger = logger }
}

// WithMetrics records catalog loads and builds in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(idx *Indexer) { idx.metrics = m }
}

// Statistics describes how a catalog was obtained
type Statistics struct {
	Source           string // metrics.LoadSourceCache or metrics.LoadSourceBuild
	FunctionsIndexed int
	ClassesIndexed   int
	Injected         []string
	CacheFallback    string // why an existing cache was not used, if it was not
	Persisted        bool
	Duration         time.Duration
}

// New creates a new Indexer persisting to store
func New(store storage.Store, opts ...Option) *Indexer {
	idx := &Indexer{
		store:  store,
		params: bm25.DefaultParams(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = logging.Component(idx.logger, "indexer")
	idx.parser = parser.New(parser.WithLogger(idx.logger))
	return idx
}

// LoadOrBuild returns the catalog for sourcePath, restoring it from the
// cache when the cache was built from the same source modification time and
// rebuilding (then persisting) it otherwise. Only a missing source or a parse
// failure is fatal; an unusable cache is logged and rebuilt, and a failure to
// persist is logged.
func (idx *Indexer) LoadOrBuild(ctx context.Context, sourcePath string) (*catalog.Catalog, *Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, nil, types.ErrBuildInProgress
	}
	defer idx.lock.Release()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	stats := &Statistics{}

	timestamp, err := sourceTimestamp(sourcePath)
	if err != nil {
		return nil, nil, err
	}
	logger := idx.logger.WithField("source", sourcePath)

	cat, err := idx.loadCached(ctx, sourcePath, timestamp)
	switch {
	case err == nil:
		stats.Source = metrics.LoadSourceCache
		stats.FunctionsIndexed = len(cat.Functions)
		stats.ClassesIndexed = len(cat.Classes)
		stats.Duration = time.Since(startTime)
		idx.metrics.CatalogLoaded(metrics.LoadSourceCache, stats.FunctionsIndexed, stats.ClassesIndexed)
		logger.WithFields(logrus.Fields{
			"functions": stats.FunctionsIndexed,
			"classes":   stats.ClassesIndexed,
		}).Info("Loaded BM25 index from cache")
		return cat, stats, nil
	case errors.Is(err, storage.ErrNotFound):
		logger.Info("No cached index found")
	case errors.Is(err, errCacheStale):
		logger.Info("Stub file changed since the cached index was built")
	default:
		stats.CacheFallback = err.Error()
		idx.metrics.CacheCorrupt()
		logger.WithError(err).Warn("Failed to load cached index, rebuilding")
	}

	cat, snap, result, err := idx.Build(ctx, sourcePath)
	if err != nil {
		return nil, nil, err
	}
	cat.SourceTimestamp = timestamp
	idx.metrics.BuildCompleted(time.Since(startTime))

	meta := &storage.Metadata{SourceTimestamp: timestamp}
	if err := idx.store.Write(ctx, snap, meta); err != nil {
		logger.WithError(err).Warn("Failed to persist index cache")
	} else {
		stats.Persisted = true
		logger.WithField("location", idx.store.Location()).Info("Saved index cache")
	}

	stats.Source = metrics.LoadSourceBuild
	stats.FunctionsIndexed = len(cat.Functions)
	stats.ClassesIndexed = len(cat.Classes)
	stats.Injected = result.Injected
	stats.Duration = time.Since(startTime)
	idx.metrics.CatalogLoaded(metrics.LoadSourceBuild, stats.FunctionsIndexed, stats.ClassesIndexed)

	return cat, stats, nil
}

// Build parses sourcePath and builds both corpora and indices without
// touching the cache. The snapshot it returns is what LoadOrBuild persists.
func (idx *Indexer) Build(ctx context.Context, sourcePath string) (*catalog.Catalog, *storage.Snapshot, *types.ParseResult, error) {
	idx.logger.WithField("source", sourcePath).Info("Building BM25 index from source")

	result, err := idx.parser.ParseFile(ctx, sourcePath)
	if err != nil {
		return nil, nil, nil, err
	}

	cat := idx.newCatalog(sourcePath)
	cat.Functions = result.Functions
	cat.Classes = result.Classes

	// The two corpora and their indices are independent
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat.FunctionCorpus = corpus.BuildFunctions(cat.Functions)
		cat.FunctionIndex = bm25.New(cat.FunctionCorpus, idx.params)
		return nil
	})
	g.Go(func() error {
		cat.ClassCorpus = corpus.BuildClasses(cat.Classes)
		cat.ClassIndex = bm25.New(cat.ClassCorpus, idx.params)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	idx.logger.WithFields(logrus.Fields{
		"functions": len(cat.Functions),
		"classes":   len(cat.Classes),
	}).Info("Built BM25 indices")

	snap := &storage.Snapshot{
		Functions:      cat.Functions,
		Classes:        cat.Classes,
		FunctionCorpus: cat.FunctionCorpus,
		ClassCorpus:    cat.ClassCorpus,
		FunctionStats:  cat.FunctionIndex.Stats(),
		ClassStats:     cat.ClassIndex.Stats(),
	}
	return cat, snap, result, nil
}

// loadCached restores the catalog from the store if it matches timestamp
func (idx *Indexer) loadCached(ctx context.Context, sourcePath string, timestamp float64) (*catalog.Catalog, error) {
	meta, err := idx.store.ReadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta.SourceTimestamp != timestamp {
		return nil, errCacheStale
	}

	snap, err := idx.store.ReadSnapshot(ctx, meta)
	if err != nil {
		return nil, err
	}

	functionIndex, err := bm25.FromStats(snap.FunctionStats, idx.params)
	if err != nil {
		return nil, fmt.Errorf("%w: function index: %v", types.ErrCacheCorrupt, err)
	}
	classIndex, err := bm25.FromStats(snap.ClassStats, idx.params)
	if err != nil {
		return nil, fmt.Errorf("%w: class index: %v", types.ErrCacheCorrupt, err)
	}

	cat := idx.newCatalog(sourcePath)
	cat.Functions = snap.Functions
	cat.Classes = snap.Classes
	cat.FunctionCorpus = snap.FunctionCorpus
	cat.ClassCorpus = snap.ClassCorpus
	cat.FunctionIndex = functionIndex
	cat.ClassIndex = classIndex
	cat.SourceTimestamp = timestamp
	return cat, nil
}

func (idx *Indexer) newCatalog(sourcePath string) *catalog.Catalog {
	return &catalog.Catalog{
		SourcePath:   sourcePath,
		CacheDir:     idx.store.Location(),
		CacheBackend: idx.store.Backend(),
	}
}

// sourceTimestamp returns the modification time of path in fractional
// seconds, the key the cache is validated against
func sourceTimestamp(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", types.ErrSourceNotFound, path)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", types.ErrSourceNotFound, path)
	}
	return float64(info.ModTime().UnixNano()) / 1e9, nil
}
