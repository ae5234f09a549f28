// Package metrics defines the Prometheus collectors for catalog loading and
// search, registered on a private registry so several servers (or tests) can
// coexist in one process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog load sources
const (
	LoadSourceCache        = "cache"
	LoadSourceBuild        = "build"
	LoadSourceCacheCorrupt = "cache_corrupt"
)

// Search outcomes
const (
	OutcomeHit        = "hit"
	OutcomeZeroResult = "zero_result"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	SearchLatency      *prometheus.HistogramVec
	SearchResultsCount prometheus.Histogram
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	CatalogLoadsTotal  *prometheus.CounterVec
	BuildDuration      prometheus.Histogram
	CatalogEntries     *prometheus.GaugeVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uemcp_searches_total",
				Help: "Total searches by scope and outcome (hit, zero_result, invalid, error).",
			},
			[]string{"scope", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uemcp_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uemcp_search_results_count",
				Help:    "Number of results returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 150},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "uemcp_result_cache_hits_total",
				Help: "Total result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "uemcp_result_cache_misses_total",
				Help: "Total result cache misses.",
			},
		),
		CatalogLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uemcp_catalog_loads_total",
				Help: "Catalog loads by source (cache, build, cache_corrupt).",
			},
			[]string{"source"},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uemcp_build_duration_seconds",
				Help:    "Duration of full catalog builds in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		CatalogEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "uemcp_catalog_entries",
				Help: "Number of catalog entries by kind.",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CatalogLoadsTotal,
		m.BuildDuration,
		m.CatalogEntries,
	)

	return m
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for the private registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search
func (m *Metrics) ObserveSearch(scope, outcome string, cached bool, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(scope, outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	status := "miss"
	if cached {
		status = "hit"
	}
	m.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
	m.SearchResultsCount.Observe(float64(results))
}

// ResultCacheHit counts a result cache hit
func (m *Metrics) ResultCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// ResultCacheMiss counts a result cache miss
func (m *Metrics) ResultCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

// CatalogLoaded records where a catalog came from and its size
func (m *Metrics) CatalogLoaded(source string, functions, classes int) {
	if m == nil {
		return
	}
	m.CatalogLoadsTotal.WithLabelValues(source).Inc()
	m.CatalogEntries.WithLabelValues("function").Set(float64(functions))
	m.CatalogEntries.WithLabelValues("class").Set(float64(classes))
}

// CacheCorrupt counts a cache that could not be used and was rebuilt
func (m *Metrics) CacheCorrupt() {
	if m == nil {
		return
	}
	m.CatalogLoadsTotal.WithLabelValues(LoadSourceCacheCorrupt).Inc()
}

// BuildCompleted records the duration of a full build
func (m *Metrics) BuildCompleted(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BuildDuration.Observe(elapsed.Seconds())
}
