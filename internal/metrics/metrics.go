// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationLatency is the wall time of calls to the text generation service.
	GenerationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hustle_generation_latency_seconds",
			Help:    "Generation service call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"status"}, // ok, error, timeout, circuit_open
	)

	InsightFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hustle_insight_fallbacks_total",
			Help: "Insight results that used fallback text instead of model output",
		},
		[]string{"timeframe", "reason"}, // reason: failed, unparsed, empty, no_data
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hustle_store_query_duration_seconds",
			Help:    "Record store query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hustle_store_errors_total",
			Help: "Record store calls that returned an error",
		},
		[]string{"operation"},
	)

	HabitToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hustle_habit_toggles_total",
			Help: "Habit progress toggles by resulting state",
		},
		[]string{"state"}, // done, undone
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hustle_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	CircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hustle_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// RecordGeneration observes one generation call.
func RecordGeneration(status string, d time.Duration) {
	GenerationLatency.WithLabelValues(status).Observe(d.Seconds())
}

// RecordFallback counts one insight fallback.
func RecordFallback(timeframe, reason string) {
	InsightFallbacks.WithLabelValues(timeframe, reason).Inc()
}

// ObserveStore records the duration of a store call and counts it as failed when err is set.
func ObserveStore(operation string, started time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordToggle counts a habit toggle by its resulting state.
func RecordToggle(done bool) {
	state := "undone"
	if done {
		state = "done"
	}
	HabitToggles.WithLabelValues(state).Inc()
}

// RecordHTTPRequest observes one API request.
func RecordHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// SetCircuitState publishes the numeric state of a named breaker.
func SetCircuitState(name string, state int) {
	CircuitState.WithLabelValues(name).Set(float64(state))
}
