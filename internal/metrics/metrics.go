package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm_webhook_api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crm_webhook_api",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	WebhookIngestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm_webhook_api",
		Name:      "webhook_ingestions_total",
		Help:      "Webhook ingestion attempts by entity and outcome (created, rejected, method_not_allowed, store_error).",
	}, []string{"entity", "outcome"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm_webhook_api",
		Name:      "validation_failures_total",
		Help:      "Payload validation failures by entity.",
	}, []string{"entity"})

	StoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm_webhook_api",
		Name:      "store_requests_total",
		Help:      "Requests to the hosted data platform by table, operation, and outcome.",
	}, []string{"table", "op", "outcome"})

	ReportGenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm_webhook_api",
		Name:      "report_generations_total",
		Help:      "AI report generations by kind and outcome.",
	}, []string{"kind", "outcome"})

	ReportGenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crm_webhook_api",
		Name:      "report_generation_duration_seconds",
		Help:      "Completion API call latency in seconds.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})
)

// Handler returns an http.Handler that serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware wraps an http.Handler to record request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := normalizePath(r.URL.Path)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath buckets URL paths to avoid label cardinality blowups:
// the first two segments are kept, the rest dropped.
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	segments := strings.Split(strings.Trim(p, "/"), "/")
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return "/" + strings.Join(segments, "/")
}
