// Package metrics owns the Prometheus collectors of the service and the
// registry served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flashlists"

// Metrics groups the collectors updated by the editor, the live hub and the
// background workers.
type Metrics struct {
	registry *prometheus.Registry

	CardsGenerated  *prometheus.CounterVec
	Diagnostics     *prometheus.CounterVec
	CardsRemoved    *prometheus.CounterVec
	LiveConnections prometheus.Gauge
	TasksProcessed  *prometheus.CounterVec
	UsersPurged     prometheus.Counter
}

// New creates the collectors on a private registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CardsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_generated_total",
			Help:      "Cards produced by the card generator, by alignment mode.",
		}, []string{"mode"}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_diagnostics_total",
			Help:      "Diagnostics reported while generating cards, by kind.",
		}, []string{"kind"}),
		CardsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_removed_total",
			Help:      "Cards removed from raw editor text, by alignment mode.",
		}, []string{"mode"}),
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_connections",
			Help:      "Open websocket connections.",
		}),
		TasksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_processed_total",
			Help:      "Background tasks executed, by type and result.",
		}, []string{"type", "result"}),
		UsersPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unverified_users_purged_total",
			Help:      "Unverified accounts deleted by the maintenance job.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CardsGenerated,
		m.Diagnostics,
		m.CardsRemoved,
		m.LiveConnections,
		m.TasksProcessed,
		m.UsersPurged,
	)
	return m
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Mode returns the label value for an alignment mode.
func Mode(align bool) string {
	if align {
		return "aligned"
	}
	return "strict"
}

// ObserveTask counts one finished background task.
func (m *Metrics) ObserveTask(taskType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TasksProcessed.WithLabelValues(taskType, result).Inc()
}
