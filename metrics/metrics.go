package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled requests by method, route and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_desk_http_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// RequestDuration tracks request latency by route
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "complaint_desk_http_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ComplaintsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "complaint_desk_complaints_created_total",
		Help: "The total number of complaints created",
	})

	ComplaintUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_desk_complaint_updates_total",
		Help: "The total number of complaint updates recorded, by status",
	}, []string{"status"})

	// FeedbackSubmissionsTotal counts feedback attempts; result is created or conflict
	FeedbackSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_desk_feedback_submissions_total",
		Help: "The total number of feedback submissions by result",
	}, []string{"result"})

	RateLimitExceededTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_desk_rate_limit_exceeded_total",
		Help: "The total number of requests rejected by a rate limit",
	}, []string{"limit"})

	// AuthFailuresTotal counts rejected bearer tokens by reason
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_desk_auth_failures_total",
		Help: "The total number of authentication failures",
	}, []string{"reason"})
)
