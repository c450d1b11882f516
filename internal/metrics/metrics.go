// Package metrics holds the engine's Prometheus collectors. All methods are
// safe on a nil *Metrics so callers never need to check.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	httpLatency    *prometheus.HistogramVec
	recordsCreated *prometheus.CounterVec
	matchRequests  *prometheus.CounterVec
	matchResults   prometheus.Histogram
	syncTotal      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Listings, buyer requirements and comments stored.",
		}, []string{"kind"}),
		matchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Match engine invocations by outcome.",
		}, []string{"outcome"}),
		matchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_results",
			Help:      "Number of listings returned per match.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50},
		}),
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_sync_total",
			Help:      "Sheets sync attempts by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}

	registry.MustRegister(
		m.httpLatency,
		m.recordsCreated,
		m.matchRequests,
		m.matchResults,
		m.syncTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) RecordCreated(kind string) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveMatch(results int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.matchRequests.WithLabelValues("error").Inc()
		return
	}
	m.matchRequests.WithLabelValues("ok").Inc()
	m.matchResults.Observe(float64(results))
}

// Sync outcomes.
const (
	SyncSent    = "sent"
	SyncFailed  = "failed"
	SyncSkipped = "skipped"
	SyncDropped = "dropped"
)

func (m *Metrics) RecordSync(sink, outcome string) {
	if m == nil {
		return
	}
	m.syncTotal.WithLabelValues(sink, outcome).Inc()
}
