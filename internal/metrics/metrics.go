package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"service", "method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interviewguide",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "interviewguide",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	}, []string{"service"})

	gradingSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "grading_submissions_total",
		Help:      "Grading outcomes by final record state",
	}, []string{"outcome"})

	gradingRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "grading_repairs_total",
		Help:      "Grader outputs recovered, by repair stage",
	}, []string{"stage"})

	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "sessions_created_total",
		Help:      "Interview sessions created",
	})

	sessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "sessions_completed_total",
		Help:      "Interview sessions moved to COMPLETED",
	})

	reportExports = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interviewguide",
		Name:      "report_exports_total",
		Help:      "Report PDFs rendered and served",
	})
)

// RecordSubmission counts one grading outcome, "graded" or "degraded".
func RecordSubmission(outcome string) {
	gradingSubmissions.WithLabelValues(outcome).Inc()
}

// RecordRepair counts a grader output recovered at the given stage,
// "syntactic" or "remote".
func RecordRepair(stage string) {
	gradingRepairs.WithLabelValues(stage).Inc()
}

func RecordSessionCreated() {
	sessionsCreated.Inc()
}

func RecordSessionCompleted() {
	sessionsCompleted.Inc()
}

func RecordReportExport() {
	reportExports.Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request metrics with Prometheus labels.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.WithLabelValues(service).Inc()
			defer httpInFlight.WithLabelValues(service).Dec()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"service": service,
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
