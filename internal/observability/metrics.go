package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alert aggregation pipeline.
type Metrics struct {
	CyclesTotal   *prometheus.CounterVec // labels: outcome={success,error}
	CycleDuration prometheus.Histogram

	ProviderRequests *prometheus.CounterVec // labels: provider, outcome={success,error}
	SourceSelected   *prometheus.CounterVec // labels: source (which alert source won the fallback chain)

	ActiveAlerts *prometheus.GaugeVec // labels: severity
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.ProviderRequests,
		m.SourceSelected,
		m.ActiveAlerts,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_alerts",
			Name:      "fetch_cycles_total",
			Help:      "Completed fetch cycles by outcome.",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_alerts",
			Name:      "fetch_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-merge cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_alerts",
			Name:      "provider_requests_total",
			Help:      "Upstream provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		SourceSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_alerts",
			Name:      "alert_source_selected_total",
			Help:      "Which alert source satisfied the fallback chain.",
		}, []string{"source"}),
		ActiveAlerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weather_alerts",
			Name:      "active_alerts",
			Help:      "Alerts in the latest report by severity.",
		}, []string{"severity"}),
	}
}
