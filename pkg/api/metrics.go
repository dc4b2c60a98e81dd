package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/tgmreplays/pkg/replay"
	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/store"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	outcomeDecoded   = "decoded"
	outcomeTruncated = "truncated"
	outcomeMode      = "unrecognized_mode"
	outcomeAnomaly   = "anomaly"
	outcomeOther     = "other"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Scan metrics
	scansTotal     *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	scanFilesTotal *prometheus.CounterVec
	bucketReplays  *prometheus.GaugeVec
}

// NewMetrics creates the metrics on their own registry, so several servers
// can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tgmr_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tgmr_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tgmr_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		scansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tgmr_scans_total",
				Help: "Total number of replay directory scans",
			},
			[]string{"status"},
		),

		scanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tgmr_scan_duration_seconds",
				Help:    "Replay directory scan duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		scanFilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tgmr_scan_files_total",
				Help: "Replay files processed, by outcome",
			},
			[]string{"outcome"},
		),

		bucketReplays: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tgmr_bucket_replays",
				Help: "Replays per bucket in the current scan",
			},
			[]string{"bucket"},
		),
	}
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordScanFailure records a scan that could not run at all
func (m *Metrics) RecordScanFailure() {
	m.scansTotal.WithLabelValues(statusError).Inc()
}

// RecordScan records a finished scan and replaces the bucket gauges
func (m *Metrics) RecordScan(res *scan.Result) {
	m.scansTotal.WithLabelValues(statusSuccess).Inc()
	m.scanDuration.Observe(res.Duration.Seconds())

	m.scanFilesTotal.WithLabelValues(outcomeDecoded).Add(float64(res.Store.Len()))
	for _, f := range res.Failures {
		m.scanFilesTotal.WithLabelValues(failureOutcome(f.Err)).Inc()
	}
	for b, n := range res.Store.Counts() {
		m.bucketReplays.WithLabelValues(b.String()).Set(float64(n))
	}
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, replay.ErrTruncatedBuffer):
		return outcomeTruncated
	case errors.Is(err, replay.ErrUnrecognizedMode):
		return outcomeMode
	case errors.Is(err, store.ErrClassificationAnomaly):
		return outcomeAnomaly
	default:
		return outcomeOther
	}
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
