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

	ChartExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_extractions_total",
			Help: "Chart extraction outcomes by matcher strategy",
		},
		[]string{"strategy"},
	)

	QuestionExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_question_extractions_total",
			Help: "Survey question extraction outcomes",
		},
		[]string{"outcome"},
	)

	RouteAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_insert_attempts_total",
			Help: "Insert attempts per destination",
		},
		[]string{"destination", "result"},
	)

	RouteOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_outcomes_total",
			Help: "Final outcome of routing calls",
		},
		[]string{"destination", "outcome"},
	)

	AutoSaveQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "autosave_queue_depth",
			Help: "Jobs waiting in the in-memory auto-save queue",
		},
	)

	AutoSaveJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autosave_jobs_total",
			Help: "Auto-save jobs by final status",
		},
		[]string{"status"},
	)
)
