package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes
const (
	OutcomeLoaded = "loaded"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Fetch cache results
const (
	CacheFresh = "fresh"
	CacheStale = "stale"
	CacheMiss  = "miss"
)

var (
	// PlaylistLoads tracks playlist loads by origin (url, file, sample) and outcome
	PlaylistLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_playlist_loads_total",
		Help: "Total number of playlist loads",
	}, []string{"origin", "outcome"})

	// PlaylistChannels tracks the number of channels in the current playlist
	PlaylistChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_playlist_channels",
		Help: "Number of channels in the current playlist",
	})

	// DroppedDirectives tracks #EXTINF directives discarded without a locator line
	DroppedDirectives = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_playlist_dropped_directives_total",
		Help: "Total number of directives dropped because no locator followed",
	})

	// SourceFetchErrors tracks playlist retrieval failures by source kind
	SourceFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_source_fetch_errors_total",
		Help: "Total number of playlist retrieval errors",
	}, []string{"source"})

	// SourceCacheResults tracks fetch cache lookups by result
	SourceCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_source_cache_results_total",
		Help: "Total number of playlist cache lookups by result",
	}, []string{"result"})

	// FavoriteToggles tracks favorite toggles by action (added, removed)
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_favorite_toggles_total",
		Help: "Total number of favorite toggles",
	}, []string{"action"})

	// CircuitBreakerState tracks the current state of circuit breakers
	// 0=closed, 1=open, 2=half-open
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iptv_circuit_breaker_state",
		Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
	}, []string{"source"})

	// CircuitBreakerTrips tracks how many times a circuit breaker transitioned to OPEN
	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_circuit_breaker_trips_total",
		Help: "Total number of times circuit breaker transitioned to OPEN state",
	}, []string{"source"})

	// HTTPRequests tracks served HTTP requests by method and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "status"})

	// HTTPRequestDuration tracks HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iptv_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// HealthCheckFailures tracks health check failures
	HealthCheckFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_health_check_failures_total",
		Help: "Total number of health check failures",
	})
)

// RecordPlaylistLoad increments the load counter for an origin and outcome
func RecordPlaylistLoad(origin, outcome string) {
	PlaylistLoads.WithLabelValues(origin, outcome).Inc()
}

// SetPlaylistChannels sets the number of channels in the current playlist
func SetPlaylistChannels(count int) {
	PlaylistChannels.Set(float64(count))
}

// RecordDroppedDirectives adds n dropped directives
func RecordDroppedDirectives(n int) {
	if n > 0 {
		DroppedDirectives.Add(float64(n))
	}
}

// RecordSourceFetchError increments the fetch error counter for a source kind
func RecordSourceFetchError(source string) {
	SourceFetchErrors.WithLabelValues(source).Inc()
}

// RecordCacheResult increments the cache lookup counter for a result
func RecordCacheResult(result string) {
	SourceCacheResults.WithLabelValues(result).Inc()
}

// RecordFavoriteToggle increments the toggle counter for an action
func RecordFavoriteToggle(action string) {
	FavoriteToggles.WithLabelValues(action).Inc()
}

// SetCircuitBreakerState updates the circuit breaker state metric
// state should be one of: "CLOSED" (0), "OPEN" (1), "HALF-OPEN" (2)
func SetCircuitBreakerState(source, state string) {
	var value float64
	switch state {
	case "CLOSED":
		value = 0
	case "OPEN":
		value = 1
	case "HALF-OPEN":
		value = 2
	}
	CircuitBreakerState.WithLabelValues(source).Set(value)
}

// RecordCircuitBreakerTrip increments the circuit breaker trip counter
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTrips.WithLabelValues(source).Inc()
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, status).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordHealthCheckFailure increments the health check failure counter
func RecordHealthCheckFailure() {
	HealthCheckFailures.Inc()
}
