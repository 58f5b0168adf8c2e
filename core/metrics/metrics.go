package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache metrics, labelled by store name (search, release, price, status).
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache reads served from a fresh entry",
		},
		[]string{"store"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache reads that triggered a fetch",
		},
		[]string{"store"},
	)

	CacheRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_refreshes_total",
			Help: "Total number of forced fetches that bypassed entry freshness",
		},
		[]string{"store"},
	)

	CacheCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_coalesced_total",
			Help: "Total number of cache reads that joined an in-flight fetch",
		},
		[]string{"store"},
	)

	// Rate limiter metrics.
	RateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratelimit_waits_total",
			Help: "Total number of acquires that had to wait for a token",
		},
	)

	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ratelimit_wait_seconds",
			Help:    "Time spent waiting for a rate limiter token",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Catalog API metrics.
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of catalog API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Circuit breaker state: 0 = closed, 1 = half-open, 2 = open.
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Sync metrics, labelled by list type (collection, wantlist).
	SyncPagesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_pages_loaded_total",
			Help: "Total number of library pages ingested",
		},
		[]string{"list"},
	)

	SyncItemsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_items_loaded_total",
			Help: "Total number of library entries ingested from sync pages",
		},
		[]string{"list"},
	)

	SyncFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_failures_total",
			Help: "Total number of sync runs aborted by a page failure",
		},
		[]string{"list"},
	)

	// Reconciliation metrics. Mismatches are self-healing and never
	// surfaced to users; the counter is the only place they are visible.
	ReconcileMismatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_mismatch_total",
			Help: "Total number of field-level mismatches between optimistic and verified state",
		},
		[]string{"field"},
	)

	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Total number of post-mutation verification runs by outcome",
		},
		[]string{"outcome"},
	)
)
