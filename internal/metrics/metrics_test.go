package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	m := New()

	m.ObserveSearch("both", OutcomeHit, false, 5, time.Millisecond)
	m.ObserveSearch("both", OutcomeHit, true, 5, time.Microsecond)
	m.ObserveSearch("function", OutcomeZeroResult, false, 0, time.Millisecond)
	m.ObserveSearch("both", OutcomeInvalid, false, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("both", OutcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("function", OutcomeZeroResult)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("both", OutcomeInvalid)))

	// Invalid searches are not timed
	assert.Equal(t, 2, testutil.CollectAndCount(m.SearchLatency))
}

func TestCatalogLoaded(t *testing.T) {
	m := New()

	m.CacheCorrupt()
	m.CatalogLoaded(LoadSourceBuild, 120, 30)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoadsTotal.WithLabelValues(LoadSourceCacheCorrupt)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoadsTotal.WithLabelValues(LoadSourceBuild)))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.CatalogEntries.WithLabelValues("function")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.CatalogEntries.WithLabelValues("class")))
}

func TestResultCacheCounters(t *testing.T) {
	m := New()
	m.ResultCacheHit()
	m.ResultCacheMiss()
	m.ResultCacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch("both", OutcomeHit, false, 1, time.Millisecond)
		m.ResultCacheHit()
		m.ResultCacheMiss()
		m.CatalogLoaded(LoadSourceCache, 1, 1)
		m.CacheCorrupt()
		m.BuildCompleted(time.Second)
	})
}

func TestIndependentRegistries(t *testing.T) {
	first := New()
	second := New()
	first.BuildCompleted(time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(first.BuildDuration))
	assert.NotSame(t, first.Registry(), second.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.CatalogLoaded(LoadSourceCache, 3, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `uemcp_catalog_loads_total{source="cache"} 1`))
	assert.True(t, strings.Contains(body, `uemcp_catalog_entries{kind="function"} 3`))
}
