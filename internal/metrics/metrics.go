// Package metrics exposes Prometheus instrumentation for the HTTP API,
// ticketing-source clients, caches, and itinerary generation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Ticketing Source Metrics
	SourceSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_search_duration_seconds",
			Help:    "Duration of upstream ticketing-source searches",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	SourceSearchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_search_errors_total",
			Help: "Total number of upstream ticketing-source search failures",
		},
		[]string{"source"},
	)

	SourceConcertsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_concerts_returned_total",
			Help: "Total number of concerts returned by each source before dedupe",
		},
		[]string{"source"},
	)

	ConcertsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concerts_deduplicated_total",
			Help: "Total number of duplicate concert listings folded into canonical ones",
		},
	)

	// Circuit Breaker Metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_breaker_state",
			Help: "Circuit breaker state per source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "concerts"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Itinerary Metrics
	ItinerariesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itineraries_generated_total",
			Help: "Total number of festival itineraries generated",
		},
		[]string{"kind"}, // "single", "group"
	)

	ItineraryGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itinerary_generation_duration_seconds",
			Help:    "Duration of itinerary generation",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Search Metrics
	SearchQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of full-text search queries",
		},
	)

	SearchQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_query_duration_seconds",
			Help:    "Full-text search query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Auth Metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of failed authentication attempts",
		},
		[]string{"reason"}, // "bad_credentials", "expired_token", "invalid_token"
	)

	// Festival Lineup Metrics
	LineupReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineup_reloads_total",
			Help: "Total number of festival lineup file reloads",
		},
		[]string{"result"}, // "ok", "error"
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSourceSearch records one upstream source search, successful or not.
func RecordSourceSearch(source string, returned int, duration time.Duration, err error) {
	SourceSearchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		SourceSearchErrors.WithLabelValues(source).Inc()
		return
	}
	SourceConcertsReturned.WithLabelValues(source).Add(float64(returned))
}

// RecordCacheHit increments the hit counter for a cache.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the miss counter for a cache.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordItinerary records one generated itinerary of the given kind.
func RecordItinerary(kind string, duration time.Duration) {
	ItinerariesGenerated.WithLabelValues(kind).Inc()
	ItineraryGenerationDuration.Observe(duration.Seconds())
}

// RecordSearchQuery records one full-text search.
func RecordSearchQuery(duration time.Duration) {
	SearchQueries.Inc()
	SearchQueryDuration.Observe(duration.Seconds())
}

// RecordAuthFailure records a failed authentication attempt.
func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

// RecordLineupReload records a festival lineup file reload.
func RecordLineupReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LineupReloads.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
