package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/application"
	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "capi_relay"

var _ application.DispatchObserver = (*RelayMetrics)(nil)

// RelayMetrics holds all Prometheus metrics for the relay service.
type RelayMetrics struct {
	AttemptsTotal    *prometheus.CounterVec
	OutcomesTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewRelayMetrics registers the relay metrics with reg. Passing a fresh
// registry keeps tests independent of the global default.
func NewRelayMetrics(reg *prometheus.Registry) *RelayMetrics {
	factory := promauto.With(reg)

	return &RelayMetrics{
		AttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "attempts_total",
			Help:      "Total number of provider delivery attempts by result.",
		}, []string{"provider", "result"}), // result: success, retryable, permanent
		OutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Total number of dispatch outcomes by code.",
		}, []string{"provider", "outcome"}),
		DispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Time from receiving an event to its final outcome, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		gatherer: reg,
	}
}

func (m *RelayMetrics) ObserveAttempt(provider, result string) {
	m.AttemptsTotal.WithLabelValues(provider, result).Inc()
}

func (m *RelayMetrics) ObserveOutcome(provider string, outcome *domain.DispatchOutcome, elapsed time.Duration) {
	m.OutcomesTotal.WithLabelValues(provider, outcome.Label()).Inc()
	m.DispatchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler serves the registry this instance was created with.
func (m *RelayMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Instrument records request count and latency for every request passing
// through it.
func (m *RelayMetrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
