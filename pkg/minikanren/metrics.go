package minikanren

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search metrics. Counters are process-wide and registered with the default
// Prometheus registry.
var (
	forksExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazykanren_forks_expanded_total",
		Help: "Forks popped from a state's queue and expanded",
	})

	constraintsFiled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazykanren_constraints_filed_total",
		Help: "Constraints filed to wait on unbound variables",
	})

	constraintRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazykanren_constraint_retries_total",
		Help: "Constraints retried because a watched variable was bound",
	})

	unifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazykanren_unify_failures_total",
		Help: "Unifications of two bound payloads that failed",
	})

	solutionsYielded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazykanren_solutions_total",
		Help: "Discharged terminal states yielded to callers",
	})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lazykanren_query_duration_seconds",
		Help:    "Time to run a query through a Runner",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10},
	}, []string{"outcome"})
)
