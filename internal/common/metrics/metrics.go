// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScreeningsPerformed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_evaluations_total",
			Help: "Total number of fraud screening evaluations performed",
		},
		[]string{"source"}, // internal, external, composite
	)

	SignalsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_signals_triggered_total",
			Help: "Total number of fraud signals triggered by category",
		},
		[]string{"category"},
	)

	AssignmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_assignments_created_total",
			Help: "Total number of reviewer assignments created",
		},
		[]string{"tier"},
	)

	WorkflowDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_workflow_decisions_total",
			Help: "Total number of workflow decisions applied",
		},
		[]string{"tier", "action"},
	)

	WorkflowTransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_workflow_transitions_rejected_total",
			Help: "Total number of workflow transitions rejected",
		},
		[]string{"error_code"},
	)

	ExternalScreeningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "screening_external_query_duration_seconds",
			Help: "Duration of external record-matching queries in seconds",
		},
	)

	ExternalScreeningFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screening_external_fallbacks_total",
			Help: "Total number of external screenings that fell back to a neutral result",
		},
	)
)
