package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps Prometheus collectors for stock-sentinel.
type Metrics struct {
	registry                 *prometheus.Registry
	cycleDurationSeconds     prometheus.Histogram
	checksTotal              *prometheus.CounterVec
	fetchErrorsTotal         *prometheus.CounterVec
	parseErrorsTotal         *prometheus.CounterVec
	transitionsTotal         *prometheus.CounterVec
	notificationsTotal       *prometheus.CounterVec
	lastSuccessfulCycleGauge prometheus.Gauge
}

// New initializes a Metrics registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		cycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_sentinel_cycle_duration_seconds",
			Help:    "Duration of stock check cycles in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_sentinel_checks_total",
			Help: "Total successful availability checks by product and status.",
		}, []string{"product", "status"}),
		fetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_sentinel_fetch_errors_total",
			Help: "Total page fetch failures by product.",
		}, []string{"product"}),
		parseErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_sentinel_parse_errors_total",
			Help: "Total availability extraction failures by product.",
		}, []string{"product"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_sentinel_transitions_total",
			Help: "Total availability transitions by product and kind.",
		}, []string{"product", "kind"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_sentinel_notifications_total",
			Help: "Total notification deliveries by channel and outcome.",
		}, []string{"channel", "outcome"}),
		lastSuccessfulCycleGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stock_sentinel_last_successful_cycle_timestamp",
			Help: "Unix timestamp of the last completed check cycle.",
		}),
	}

	registry.MustRegister(
		m.cycleDurationSeconds,
		m.checksTotal,
		m.fetchErrorsTotal,
		m.parseErrorsTotal,
		m.transitionsTotal,
		m.notificationsTotal,
		m.lastSuccessfulCycleGauge,
	)

	return m
}

// Handler returns a Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCycleDuration records the duration of a completed cycle.
func (m *Metrics) ObserveCycleDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.cycleDurationSeconds.Observe(duration.Seconds())
}

// IncChecks increments the check counter for the given product/status.
func (m *Metrics) IncChecks(product, status string) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(product, status).Inc()
}

// IncFetchErrors increments the fetch error counter for the given product.
func (m *Metrics) IncFetchErrors(product string) {
	if m == nil {
		return
	}
	m.fetchErrorsTotal.WithLabelValues(product).Inc()
}

// IncParseErrors increments the parse error counter for the given product.
func (m *Metrics) IncParseErrors(product string) {
	if m == nil {
		return
	}
	m.parseErrorsTotal.WithLabelValues(product).Inc()
}

// IncTransitions increments the transition counter for the given product/kind.
func (m *Metrics) IncTransitions(product, kind string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(product, kind).Inc()
}

// IncNotifications increments the notification counter for the given channel/outcome.
func (m *Metrics) IncNotifications(channel, outcome string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(channel, outcome).Inc()
}

// SetLastSuccessfulCycleTimestamp sets the last successful cycle time.
func (m *Metrics) SetLastSuccessfulCycleTimestamp(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccessfulCycleGauge.Set(float64(t.Unix()))
}
