// Package metrics holds the Prometheus instruments of the artwork proxy.
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
			Name: "movierecd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierecd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierecd_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Artwork cache
	ArtworkCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_artwork_cache_hits_total",
			Help: "Artwork lookups served from cache",
		},
		[]string{"backend"},
	)

	ArtworkCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_artwork_cache_misses_total",
			Help: "Artwork lookups that required an upstream call",
		},
		[]string{"backend"},
	)

	ArtworkCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierecd_artwork_cache_entries",
			Help: "Entries held by the in-memory artwork cache",
		},
	)

	ArtworkCacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_artwork_cache_evictions_total",
			Help: "Entries removed from the in-memory artwork cache",
		},
		[]string{"reason"}, // "expired", "capacity"
	)

	// Upstream
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierecd_tmdb_request_duration_seconds",
			Help:    "Duration of TMDB API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"}, // "ok", "not_found", "error"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierecd_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Background jobs
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierecd_job_runs_total",
			Help: "Background job executions",
		},
		[]string{"job", "result"},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight requests
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordCacheLookup records a hit or miss against a cache backend
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		ArtworkCacheHits.WithLabelValues(backend).Inc()
		return
	}
	ArtworkCacheMisses.WithLabelValues(backend).Inc()
}

// RecordUpstream records one TMDB call
func RecordUpstream(result string, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordJobRun records a background job execution
func RecordJobRun(job string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	JobRuns.WithLabelValues(job, result).Inc()
}
