// Package metrics exposes prometheus instrumentation for fetcharr jobs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsStarted counts accepted job requests.
	JobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fetcharr_jobs_started_total",
		Help: "Total number of jobs accepted for processing",
	})

	// JobsCompleted counts jobs that reached the ready state.
	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fetcharr_jobs_completed_total",
		Help: "Total number of jobs that produced a ready artifact",
	})

	// JobsFailed counts failed jobs by user-facing failure category.
	JobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fetcharr_jobs_failed_total",
		Help: "Total number of failed jobs by failure category",
	}, []string{"category"})

	// ActiveJobs tracks jobs currently executing.
	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fetcharr_active_jobs",
		Help: "Number of jobs currently running",
	})

	// ArtifactsServed counts one-time artifact retrievals.
	ArtifactsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fetcharr_artifacts_served_total",
		Help: "Total number of artifacts streamed to a retriever",
	})
)

// IncFailed records a failed job outcome.
func IncFailed(category string) {
	JobsFailed.WithLabelValues(category).Inc()
}
