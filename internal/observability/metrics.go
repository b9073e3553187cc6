package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	sessionMarksTotal     *prometheus.CounterVec
	sessionUndosTotal     prometheus.Counter
	commitLatencySeconds  prometheus.Histogram
	streakCorrections     prometheus.Counter
	uploadLatencySeconds  prometheus.Histogram
	uploadRejectionsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		sessionMarksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_marks_total",
			Help: "Attendance marks recorded during swipe sessions, by status.",
		}, []string{"status"})

		sessionUndosTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_undos_total",
			Help: "Undo actions taken during swipe sessions.",
		})

		commitLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "session_commit_latency_seconds",
			Help:    "Latency of committing a day's attendance to the log store.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		streakCorrections = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streak_corrections_total",
			Help: "Stored streak values corrected by reconciliation.",
		})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "photo_upload_latency_seconds",
			Help:    "Latency of profile photo uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		uploadRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photo_upload_rejections_total",
			Help: "Profile photo uploads rejected during validation.",
		}, []string{"reason"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			sessionMarksTotal,
			sessionUndosTotal,
			commitLatencySeconds,
			streakCorrections,
			uploadLatencySeconds,
			uploadRejectionsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// SessionMarks exposes the per-status mark counter.
func SessionMarks() *prometheus.CounterVec {
	RegisterMetrics()
	return sessionMarksTotal
}

// SessionUndos exposes the undo counter.
func SessionUndos() prometheus.Counter {
	RegisterMetrics()
	return sessionUndosTotal
}

// CommitLatency exposes the commit latency histogram.
func CommitLatency() prometheus.Histogram {
	RegisterMetrics()
	return commitLatencySeconds
}

// StreakCorrections exposes the reconciliation correction counter.
func StreakCorrections() prometheus.Counter {
	RegisterMetrics()
	return streakCorrections
}

// UploadLatency exposes the photo upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// UploadRejected exposes the upload rejection counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectionsTotal
}
