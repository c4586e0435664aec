package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/BodyComp/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// telemetry holds the server's Prometheus collectors. Each Server owns its
// registry so several servers can coexist in one process.
type telemetry struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	analyses     *prometheus.CounterVec
	measurements prometheus.Counter
	fileErrors   *prometheus.CounterVec
}

func newTelemetry(runs *core.RunLimiter) *telemetry {
	t := &telemetry{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodycomp",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bodycomp",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodycomp",
			Name:      "analyses_total",
			Help:      "Completed analysis runs by input source.",
		}, []string{"source"}),
		measurements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bodycomp",
			Name:      "measurements_analyzed_total",
			Help:      "Measurements included in reports.",
		}),
		fileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bodycomp",
			Name:      "file_errors_total",
			Help:      "Inputs skipped by error code.",
		}, []string{"code"}),
	}

	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bodycomp",
		Name:      "analyses_active",
		Help:      "Analysis runs holding a slot.",
	}, func() float64 { return float64(runs.ActiveCount()) })

	t.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		t.requests, t.duration, t.analyses, t.measurements, t.fileErrors, active,
	)
	return t
}

// handler serves the registry in the Prometheus exposition format.
func (t *telemetry) handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// middleware records request counts and latency. The route label is the
// chi pattern, not the raw path, to keep cardinality bounded.
func (t *telemetry) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		t.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		t.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// observe records the outcome of one analysis run.
func (t *telemetry) observe(source string, report *core.Report) {
	t.analyses.WithLabelValues(source).Inc()
	t.measurements.Add(float64(len(report.Measurements)))
	for _, fe := range report.FileErrors {
		t.fileErrors.WithLabelValues(fe.Code).Inc()
	}
}
