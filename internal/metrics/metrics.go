package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetryAttemptsTotal tracks attempts per operation and outcome (success, failure)
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echoscribe_retry_attempts_total",
			Help: "Total number of attempts made by the retry executor",
		},
		[]string{"operation", "outcome"},
	)

	// RetryAttemptLatency tracks the duration of a single attempt
	RetryAttemptLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echoscribe_retry_attempt_duration_seconds",
			Help:    "Duration of a single attempt in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// RetryExhaustedTotal tracks operations that failed on every attempt
	RetryExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echoscribe_retry_exhausted_total",
			Help: "Total number of operations that exhausted their retry policy",
		},
		[]string{"operation"},
	)

	// ConfigValidationsTotal tracks validation runs by result (success, failure)
	ConfigValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echoscribe_config_validations_total",
			Help: "Total number of configuration validation runs",
		},
		[]string{"result"},
	)

	// ConfigHealthy is 1 when the last validation succeeded
	ConfigHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "echoscribe_config_healthy",
			Help: "Whether the last configuration validation succeeded",
		},
	)

	// CacheRequestsTotal tracks result cache lookups by result (hit, miss, error)
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echoscribe_cache_requests_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"},
	)
)
