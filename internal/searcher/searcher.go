package searcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/catalog"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/corpus"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/logging"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/metrics"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// Scope selects which corpora a query is evaluated against
type Scope string

const (
	ScopeFunctions Scope = "functions"
	ScopeClasses   Scope = "classes"
	ScopeBoth      Scope = "both"
)

// categoryOversample is how many more hits SearchByCategory asks for before
// filtering
const categoryOversample = 3

// DefaultCacheSize is the number of result lists kept by default
const DefaultCacheSize = 256

// ParseScope resolves a scope name
func ParseScope(s string) (Scope, error) {
	switch scope := Scope(strings.ToLower(strings.TrimSpace(s))); scope {
	case ScopeFunctions, ScopeClasses, ScopeBoth:
		return scope, nil
	case "":
		return ScopeBoth, nil
	default:
		return "", types.NewQueryValidationError("scope", s, "must be functions, classes or both")
	}
}

// Hit is a ranked reference into the catalog
type Hit struct {
	Category types.Category
	Index    int // Position in the catalog's Functions or Classes
	Score    float64
}

// Searcher answers ranked queries over the catalog
type Searcher struct {
	handle  *catalog.Handle
	cache   *lru.Cache[[32]byte, []Hit]
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Searcher
type Option func(*searcherOptions)

type searcherOptions struct {
	cacheSize int
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
}

// WithCacheSize sets the number of cached result lists; 0 disables caching
func WithCacheSize(n int) Option {
	return func(o *searcherOptions) { o.cacheSize = n }
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *searcherOptions) { o.logger = logger }
}

// WithMetrics records searches in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *searcherOptions) { o.metrics = m }
}

// New creates a Searcher over the catalog held by handle
func New(handle *catalog.Handle, opts ...Option) *Searcher {
	o := searcherOptions{cacheSize: DefaultCacheSize, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Searcher{
		handle:  handle,
		logger:  logging.Component(o.logger, "searcher"),
		metrics: o.metrics,
	}
	if o.cacheSize > 0 {
		// Cache will automatically evict least recently used entries
		cache, err := lru.New[[32]byte, []Hit](o.cacheSize)
		if err != nil {
			// This should never happen with valid size parameter
			panic(fmt.Sprintf("failed to create LRU cache: %v", err))
		}
		s.cache = cache
	}
	return s
}

// Search ranks catalog entries against query. Hits are ordered by score,
// highest first; equal scores keep extraction order with functions before
// classes. Entries that match no query term score 0 and still fill the
// result up to topK. topK of 0 yields no hits; a negative topK or unknown scope is a
// *types.QueryValidationError. If the catalog cannot be loaded the error is
// logged and an empty list is returned.
func (s *Searcher) Search(ctx context.Context, query string, topK int, scope Scope) ([]Hit, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return []Hit{}, nil
	}
	return s.search(cat, query, topK, scope)
}

func (s *Searcher) search(cat *catalog.Catalog, query string, topK int, scope Scope) ([]Hit, error) {
	startTime := time.Now()

	if err := validate(topK, scope); err != nil {
		s.metrics.ObserveSearch(string(scope), metrics.OutcomeInvalid, false, 0, 0)
		return nil, err
	}
	if topK == 0 {
		return []Hit{}, nil
	}

	tokens := corpus.TokenizeQuery(query)
	key := computeQueryHash(tokens, topK, scope)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.ResultCacheHit()
			s.metrics.ObserveSearch(string(scope), outcome(cached), true, len(cached), time.Since(startTime))
			return copyHits(cached), nil
		}
		s.metrics.ResultCacheMiss()
	}

	var hits []Hit
	if scope == ScopeFunctions || scope == ScopeBoth {
		hits = appendHits(hits, types.CategoryFunction, cat.FunctionIndex.Scores(tokens))
	}
	if scope == ScopeClasses || scope == ScopeBoth {
		hits = appendHits(hits, types.CategoryClass, cat.ClassIndex.Scores(tokens))
	}

	sortHits(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	if hits == nil {
		hits = []Hit{}
	}

	if s.cache != nil {
		s.cache.Add(key, copyHits(hits))
	}
	s.metrics.ObserveSearch(string(scope), outcome(hits), false, len(hits), time.Since(startTime))
	return hits, nil
}

// SearchFormatted runs Search and renders each hit for display
func (s *Searcher) SearchFormatted(ctx context.Context, query string, topK int, scope Scope) ([]types.SearchResult, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return []types.SearchResult{}, nil
	}

	s.logger.WithFields(logrus.Fields{"query": query, "top_k": topK}).Info("Searching API catalog")

	hits, err := s.search(cat, query, topK, scope)
	if err != nil {
		return nil, err
	}
	results := formatHits(cat, hits)

	s.logger.WithField("count", len(results)).Info("Found relevant documents")
	return results, nil
}

// SearchByCategory searches both corpora with an enlarged result count, keeps
// only hits of category ("function" or "class", any case), and truncates to
// topK
func (s *Searcher) SearchByCategory(ctx context.Context, query, category string, topK int) ([]types.SearchResult, error) {
	want, ok := types.ParseCategory(category)
	if !ok {
		return nil, types.NewQueryValidationError("category", category, "must be Function or Class")
	}
	if topK < 0 {
		return nil, types.NewQueryValidationError("top_k", topK, "must not be negative")
	}

	cat, err := s.catalog(ctx)
	if err != nil {
		return []types.SearchResult{}, nil
	}

	s.logger.WithFields(logrus.Fields{"query": query, "category": want}).Info("Searching API catalog by category")

	hits, err := s.search(cat, query, topK*categoryOversample, ScopeBoth)
	if err != nil {
		return nil, err
	}

	filtered := make([]Hit, 0, topK)
	for _, hit := range hits {
		if hit.Category != want {
			continue
		}
		filtered = append(filtered, hit)
		if len(filtered) == topK {
			break
		}
	}
	results := formatHits(cat, filtered)

	s.logger.WithFields(logrus.Fields{"count": len(results), "category": want}).Info("Found documents in category")
	return results, nil
}

// Stats returns the catalog sizes and locations, loading the catalog if
// needed
func (s *Searcher) Stats(ctx context.Context) (types.CorpusStats, error) {
	cat, err := s.handle.Get(ctx)
	if err != nil {
		return types.CorpusStats{}, fmt.Errorf("%w: %v", types.ErrIndexUninitialized, err)
	}
	return cat.Stats(), nil
}

// catalog fetches the catalog, logging when it is unavailable
func (s *Searcher) catalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := s.handle.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("BM25 index not initialized")
		s.metrics.ObserveSearch("", metrics.OutcomeError, false, 0, 0)
		return nil, fmt.Errorf("%w: %v", types.ErrIndexUninitialized, err)
	}
	return cat, nil
}

func validate(topK int, scope Scope) error {
	if topK < 0 {
		return types.NewQueryValidationError("top_k", topK, "must not be negative")
	}
	switch scope {
	case ScopeFunctions, ScopeClasses, ScopeBoth:
		return nil
	default:
		return types.NewQueryValidationError("scope", string(scope), "must be functions, classes or both")
	}
}

func appendHits(hits []Hit, category types.Category, scores []float64) []Hit {
	for i, score := range scores {
		hits = append(hits, Hit{Category: category, Index: i, Score: score})
	}
	return hits
}

// sortHits orders by score descending, keeping the input order of ties
func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
}

func copyHits(hits []Hit) []Hit {
	dst := make([]Hit, len(hits))
	copy(dst, hits)
	return dst
}

// outcome labels a ranked result; hits are sorted, so a zero leading score
// means no query term matched
func outcome(hits []Hit) string {
	if len(hits) == 0 || hits[0].Score <= 0 {
		return metrics.OutcomeZeroResult
	}
	return metrics.OutcomeHit
}

// computeQueryHash keys the result cache on normalized terms rather than
// the raw query, so "SpawnActor" and "spawn actor" share an entry
func computeQueryHash(tokens []string, topK int, scope Scope) [32]byte {
	var data strings.Builder
	data.WriteString(strings.Join(tokens, " "))
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%d", topK))
	data.WriteString("|")
	data.WriteString(string(scope))

	return blake3.Sum256([]byte(data.String()))
}
