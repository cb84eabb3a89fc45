// Package metrics exposes Prometheus collectors for the portal and the edge
// dispatcher.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so each server (and each test) gets an
// isolated set of collectors.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	analysesTotal   *prometheus.CounterVec
	analysisLatency *prometheus.HistogramVec

	diagnosticWrites *prometheus.CounterVec
	assetRequests    *prometheus.CounterVec
}

// New creates a Recorder whose metric names are prefixed with namespace.
func New(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "class"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 120, 300},
			},
			[]string{"route", "method", "class"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests",
			},
		),
		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Analysis submissions by outcome",
			},
			[]string{"outcome"},
		),
		analysisLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Time spent waiting for the analysis engine",
				Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"outcome"},
		),
		diagnosticWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostic_writes_total",
				Help:      "Request descriptor writes to the diagnostic store by result",
			},
			[]string{"result"},
		),
		assetRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asset_requests_total",
				Help:      "Static asset lookups by source",
			},
			[]string{"source"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveAnalysis records one analysis submission.
func (r *Recorder) ObserveAnalysis(outcome string, d time.Duration) {
	r.analysesTotal.WithLabelValues(outcome).Inc()
	r.analysisLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// DiagnosticWrite records the result of persisting a request descriptor.
func (r *Recorder) DiagnosticWrite(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.diagnosticWrites.WithLabelValues(result).Inc()
}

// AssetServed records where a static asset response came from:
// "cache", "store", or "miss".
func (r *Recorder) AssetServed(source string) {
	r.assetRequests.WithLabelValues(source).Inc()
}

// Middleware records request count, latency and in-flight requests. The route
// label is the ServeMux pattern that matched, so it must wrap the mux directly.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.inFlight.Inc()
		defer r.inFlight.Dec()

		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, req)

		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		class := statusClass(rw.status)
		r.requestsTotal.WithLabelValues(route, req.Method, class).Inc()
		r.requestDuration.WithLabelValues(route, req.Method, class).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}
