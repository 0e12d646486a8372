// Package metrics holds the Prometheus collectors of the film catalog.
//
// Collectors register with the default registry through promauto and are
// exposed on /metrics by promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "film_catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Query layer
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_rankings_total",
			Help: "Popularity rankings computed, by filter",
		},
		[]string{"filter"}, // "none", "genre", "year", "genre_year"
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_searches_total",
			Help: "Searches executed, by searched fields",
		},
		[]string{"by"}, // "title", "director", "title_director"
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_recommendations_total",
			Help: "Recommendations computed, by outcome",
		},
		[]string{"outcome"}, // "hit", "empty"
	)

	EnrichBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "film_catalog_enrich_batch_size",
			Help:    "Number of film ids materialised per enrichment batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// Feed
	FeedEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_feed_events_published_total",
			Help: "Feed events handed to the broker, by result",
		},
		[]string{"result"}, // "ok", "error", "breaker_open"
	)

	FeedEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_feed_events_consumed_total",
			Help: "Feed events read from the broker, by result",
		},
		[]string{"result"}, // "stored", "rejected", "failed"
	)

	// Rate limiting
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_catalog_rate_limited_total",
			Help: "Requests rejected by the token bucket, by route template",
		},
		[]string{"route"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "film_catalog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRanking counts a ranking call with the given filter combination.
func RecordRanking(byGenre, byYear bool) {
	filter := "none"
	switch {
	case byGenre && byYear:
		filter = "genre_year"
	case byGenre:
		filter = "genre"
	case byYear:
		filter = "year"
	}
	RankingsTotal.WithLabelValues(filter).Inc()
}

// RecordSearch counts a search over the selected fields.
func RecordSearch(byTitle, byDirector bool) {
	by := "title"
	switch {
	case byTitle && byDirector:
		by = "title_director"
	case byDirector:
		by = "director"
	}
	SearchesTotal.WithLabelValues(by).Inc()
}

// RecordRecommendation counts a recommendation; empty results are tracked
// separately so cold-start users stand out.
func RecordRecommendation(n int) {
	if n == 0 {
		RecommendationsTotal.WithLabelValues("empty").Inc()
		return
	}
	RecommendationsTotal.WithLabelValues("hit").Inc()
}
