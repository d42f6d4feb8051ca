// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// InterpreterFallbacks counts queries classified by keyword rules
	// instead of the language model. reason: disabled, provider_error, invalid_json.
	InterpreterFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_interpreter_fallbacks_total",
			Help: "Total number of queries classified by the rule-based interpreter",
		},
		[]string{"reason"},
	)

	ComposerFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_composer_fallbacks_total",
			Help: "Total number of replies rendered from templates",
		},
		[]string{"reason"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_gateway_requests_total",
			Help: "Total number of gateway requests by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_gateway_request_duration_seconds",
			Help:    "Gateway request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	TranslationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_translation_cache_lookups_total",
			Help: "Translation cache lookups by result (hit, miss, expired)",
		},
		[]string{"result"},
	)

	TranslationCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_translation_cache_entries",
			Help: "Number of entries currently held by the translation cache",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_stage_duration_seconds",
			Help:    "Duration of each assistant pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	AssistantQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_total",
			Help: "Total number of assistant queries by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)
)
