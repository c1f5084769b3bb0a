package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the aggregation collectors. Each binary owns one registry so
// tests can build isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	RunDuration   *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec
	RowsWritten   *prometheus.CounterVec
	ExcludedFacts *prometheus.CounterVec
}

func New() *Metrics {
	reg := newRegistry()

	m := &Metrics{
		Registry: reg,
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketing",
			Subsystem: "aggregation",
			Name:      "run_duration_seconds",
			Help:      "Duration of aggregation runs by trigger.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"trigger"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketing",
			Subsystem: "aggregation",
			Name:      "runs_total",
			Help:      "Aggregation runs by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketing",
			Subsystem: "aggregation",
			Name:      "rows_written_total",
			Help:      "Aggregate rows replaced, by metric.",
		}, []string{"metric"}),
		ExcludedFacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketing",
			Subsystem: "aggregation",
			Name:      "excluded_facts_total",
			Help:      "Fact rows excluded for dangling channel or campaign references.",
		}, []string{"fact"}),
	}

	reg.MustRegister(
		m.RunDuration,
		m.RunsTotal,
		m.RowsWritten,
		m.ExcludedFacts,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return handlerFor(m.Registry)
}

// newRegistry returns a registry carrying the Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func handlerFor(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
