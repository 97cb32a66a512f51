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

	NotificationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_events_total",
			Help: "Notification invocations by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	NotificationRowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_rows_written_total",
			Help: "Notification rows upserted, split by singular and merged description",
		},
		[]string{"type", "description"},
	)

	NotificationChunkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_chunk_duration_seconds",
			Help:    "Duration of one persistence chunk transaction",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	NotificationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Notification emails by provider and status",
		},
		[]string{"provider", "status"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_catalog_cache_requests_total",
			Help: "Notification type catalog lookups by cache result",
		},
		[]string{"result"},
	)
)
