package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus instruments for the refresh pipeline
// and the provider boundary.
type Metrics struct {
	registry *prometheus.Registry

	RefreshDuration prometheus.Histogram
	RefreshTotal    prometheus.Counter
	ProviderErrors  *prometheus.CounterVec
	SensorsOffline  prometheus.Gauge
	CompositeScore  prometheus.Gauge
}

// NewMetrics creates and registers the VenuePulse metrics on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "venuepulse_refresh_duration_seconds",
			Help:    "Duration of one full refresh cycle in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "venuepulse_refresh_total",
			Help: "Total completed refresh cycles",
		}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "venuepulse_provider_errors_total",
			Help: "Provider fetch failures absorbed at the boundary",
		}, []string{"provider"}),
		SensorsOffline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "venuepulse_sensors_offline",
			Help: "Sensors without a usable reading in the latest cycle",
		}),
		CompositeScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "venuepulse_composite_score",
			Help: "Latest composite anomaly score (0 while offline)",
		}),
	}

	m.registry.MustRegister(
		m.RefreshDuration,
		m.RefreshTotal,
		m.ProviderErrors,
		m.SensorsOffline,
		m.CompositeScore,
	)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather returns the current metric families.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
