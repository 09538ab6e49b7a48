package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the editor Prometheus metrics on a private registry. It
// implements editor.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	EditorsCreated     *prometheus.CounterVec
	ConfigReloads      *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "richedit_commands_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "richedit_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"command"},
		),
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "richedit_conversions_total",
				Help: "Total number of data conversions",
			},
			[]string{"op", "status"},
		),
		ConversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "richedit_conversion_duration_seconds",
				Help:    "Data conversion duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		EditorsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "richedit_editors_created_total",
				Help: "Total number of editor creations",
			},
			[]string{"status"},
		),
		ConfigReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "richedit_config_reloads_total",
				Help: "Total number of configuration reloads",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.ConversionsTotal,
		m.ConversionDuration,
		m.EditorsCreated,
		m.ConfigReloads,
	)
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveCommand records a command execution.
func (m *Metrics) ObserveCommand(name string, d time.Duration, err error) {
	m.CommandsTotal.WithLabelValues(name, status(err)).Inc()
	m.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveConversion records a data get or set.
func (m *Metrics) ObserveConversion(op string, d time.Duration, err error) {
	m.ConversionsTotal.WithLabelValues(op, status(err)).Inc()
	m.ConversionDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordEditorCreated records an editor creation attempt.
func (m *Metrics) RecordEditorCreated(err error) {
	m.EditorsCreated.WithLabelValues(status(err)).Inc()
}

// RecordConfigReload records a configuration reload attempt.
func (m *Metrics) RecordConfigReload(err error) {
	m.ConfigReloads.WithLabelValues(status(err)).Inc()
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MetricsSnapshot is a summary of the counters.
type MetricsSnapshot struct {
	Commands      uint64
	CommandErrors uint64
	Conversions   uint64
	Reloads       uint64
}

// Snapshot sums the counters across labels.
func (m *Metrics) Snapshot() (MetricsSnapshot, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return MetricsSnapshot{}, err
	}
	var s MetricsSnapshot
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			v := uint64(metric.GetCounter().GetValue())
			failed := false
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "status" && lp.GetValue() == "error" {
					failed = true
				}
			}
			switch mf.GetName() {
			case "richedit_commands_total":
				s.Commands += v
				if failed {
					s.CommandErrors += v
				}
			case "richedit_conversions_total":
				s.Conversions += v
			case "richedit_config_reloads_total":
				s.Reloads += v
			}
		}
	}
	return s, nil
}
