// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCallDuration tracks model gateway call duration.
	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_duration_seconds",
			Help:    "Model gateway call duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"provider", "status"},
	)

	// LLMCallsTotal tracks total model gateway calls.
	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total model gateway calls",
		},
		[]string{"provider", "status"},
	)

	// ParseFailuresTotal tracks model outputs that yielded no usable JSON.
	ParseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_parse_failures_total",
			Help: "Model responses with no extractable JSON payload",
		},
	)

	// TurnsTotal tracks processed conversation turns by resulting mode.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Conversation turns processed",
		},
		[]string{"mode"},
	)

	// PlansGeneratedTotal tracks generated meal plans.
	PlansGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meal_plans_generated_total",
			Help: "Daily meal plans generated",
		},
	)

	// PlanEditsTotal tracks successful meal plan edits.
	PlanEditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meal_plan_edits_total",
			Help: "Meal plan edits applied",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMCall records metrics for one model gateway call.
func RecordLLMCall(provider, status string, duration float64) {
	LLMCallDuration.WithLabelValues(provider, status).Observe(duration)
	LLMCallsTotal.WithLabelValues(provider, status).Inc()
}
