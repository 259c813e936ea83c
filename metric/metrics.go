// Package metric provides Prometheus metrics for the ontology exchange
// engine and an HTTP handler for scraping them in watch mode.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine-level metrics.
type Metrics struct {
	ParsesTotal     *prometheus.CounterVec
	MergeItemsTotal *prometheus.CounterVec
	ExportBytes     prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers the engine metrics on a private
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ParsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "engine",
				Name:      "parses_total",
				Help:      "Total parse attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		MergeItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontology",
				Subsystem: "engine",
				Name:      "merge_items_total",
				Help:      "Merge items attempted by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ExportBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ontology",
				Subsystem: "engine",
				Name:      "export_bytes",
				Help:      "Size of exported Turtle documents",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.ParsesTotal, m.MergeItemsTotal, m.ExportBytes)
	return m
}

// ObserveParse records one parse attempt.
func (m *Metrics) ObserveParse(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ParsesTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveMergeItems records the per-item outcome counts of a merge run.
func (m *Metrics) ObserveMergeItems(kind string, succeeded, failed int) {
	m.MergeItemsTotal.WithLabelValues(kind, "ok").Add(float64(succeeded))
	m.MergeItemsTotal.WithLabelValues(kind, "error").Add(float64(failed))
}

// ObserveExport records the size of one exported document.
func (m *Metrics) ObserveExport(bytes int) {
	m.ExportBytes.Observe(float64(bytes))
}

// Handler returns an HTTP handler exposing the metrics in Prometheus
// format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
