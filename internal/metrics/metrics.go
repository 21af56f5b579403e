// Package metrics holds the Prometheus collectors of the watchlist service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for fetch counters.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeTransport   = "transport"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

// Metrics is a set of collectors registered on a private registry, so several
// instances can coexist in one process (tests, multiple watchlists).
// A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// FetchTotal counts upstream fetches by collection kind and outcome.
	FetchTotal *prometheus.CounterVec
	// FetchDuration observes fetch latency by collection kind.
	FetchDuration *prometheus.HistogramVec
	// InFlight tracks fetches currently running per collection kind.
	InFlight *prometheus.GaugeVec
	// WatchlistSize is the current collection length per kind.
	WatchlistSize *prometheus.GaugeVec
	// PointsRejected counts commodity points dropped for unparsable values.
	PointsRejected prometheus.Counter
	// EventsDropped counts events not delivered to a full subscriber.
	EventsDropped prometheus.Counter
}

// New creates the collectors under namespace and registers them, together
// with the Go and process collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "fetch_total",
			Help:      "Upstream fetches by collection kind and outcome",
		}, []string{"kind", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		InFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "in_flight",
			Help:      "Fetches currently in flight per collection kind",
		}, []string{"kind"}),
		WatchlistSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "size",
			Help:      "Number of entries per collection kind",
		}, []string{"kind"}),
		PointsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "commodity_points_rejected_total",
			Help:      "Commodity points dropped because their value did not parse",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "events_dropped_total",
			Help:      "Events not delivered because a subscriber buffer was full",
		}),
	}
	m.Registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.InFlight,
		m.WatchlistSize,
		m.PointsRejected,
		m.EventsDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveFetch records one finished fetch.
func (m *Metrics) ObserveFetch(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(kind, outcome).Inc()
	m.FetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddInFlight moves the in-flight gauge for kind by delta.
func (m *Metrics) AddInFlight(kind string, delta float64) {
	if m == nil {
		return
	}
	m.InFlight.WithLabelValues(kind).Add(delta)
}

// SetSize records the length of a collection.
func (m *Metrics) SetSize(kind string, n int) {
	if m == nil {
		return
	}
	m.WatchlistSize.WithLabelValues(kind).Set(float64(n))
}

// RejectPoints counts n dropped commodity points.
func (m *Metrics) RejectPoints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PointsRejected.Add(float64(n))
}

// DropEvent counts one undelivered event.
func (m *Metrics) DropEvent() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}
