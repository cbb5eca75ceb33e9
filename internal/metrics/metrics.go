// Package metrics exposes sampling and publishing counters in Prometheus
// format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the daemon's Prometheus collectors. Each instance carries
// its own registry so tests can create as many as they like without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	Cycles        prometheus.Counter
	CycleErrors   prometheus.Counter
	Published     prometheus.Counter
	PublishErrors prometheus.Counter

	Volume       prometheus.Gauge
	RawCount     prometheus.Gauge
	ChargeCounts prometheus.Histogram
}

// New creates and registers the daemon's collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fader_sampling_cycles_total",
			Help: "Completed sampling cycles.",
		}),
		CycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fader_sampling_errors_total",
			Help: "Sampling cycles that failed on a pin operation.",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fader_mqtt_published_total",
			Help: "Volume readings published to MQTT.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fader_mqtt_publish_errors_total",
			Help: "MQTT publish attempts that failed.",
		}),
		Volume: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fader_volume",
			Help: "Current conditioned volume in [0, 1].",
		}),
		RawCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fader_raw_count",
			Help: "Most recent raw charge-time count.",
		}),
		ChargeCounts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fader_charge_count",
			Help:    "Distribution of raw charge-time counts.",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.Cycles, m.CycleErrors,
		m.Published, m.PublishErrors,
		m.Volume, m.RawCount, m.ChargeCounts,
	)
	return m
}

// ObserveCycle records one successful sampling cycle.
func (m *Metrics) ObserveCycle(raw uint32, value float32) {
	m.Cycles.Inc()
	m.RawCount.Set(float64(raw))
	m.ChargeCounts.Observe(float64(raw))
	m.Volume.Set(float64(value))
}

// Handler returns the HTTP handler serving this registry's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
