package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remote_requests_total", Help: "Requests to the collection backend"},
		[]string{"op", "outcome"},
	)
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "data_fallbacks_total", Help: "Operations served by the local store after a remote failure"},
		[]string{"op"},
	)
	GenerationCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "generation_calls_total", Help: "Completion and image API calls"},
		[]string{"kind", "outcome"},
	)
	PostingJobsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "posting_jobs_published_total", Help: "Posting jobs published to the queue"},
	)
	PostingJobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "posting_jobs_processed_total", Help: "Posting jobs handled by the worker"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, RemoteRequestsTotal, FallbacksTotal,
		GenerationCallsTotal, PostingJobsPublished, PostingJobsProcessed,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
