package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtrack_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fieldtrack_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtrack_store_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "outcome"},
	)

	ActivityAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldtrack_activity_append_failures_total",
			Help: "Activity log appends that failed after a committed visit write",
		},
	)

	PhotoUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtrack_photo_uploads_total",
			Help: "Total number of photo proof uploads",
		},
		[]string{"outcome"},
	)

	RemindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtrack_reminders_sent_total",
			Help: "Total number of follow-up reminders sent",
		},
		[]string{"channel", "outcome"},
	)
)
