// Package metrics exposes prometheus counters for widget activity.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "configurator"

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	catalogLoads  *prometheus.CounterVec
	activeWidgets prometheus.Gauge
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Selection store operations by name and whether they changed state.",
		}, []string{"operation", "changed"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Add-to-cart submissions by outcome.",
		}, []string{"outcome"}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog snapshot loads by result.",
		}, []string{"result"}),
		activeWidgets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_widgets",
			Help:      "Currently mounted widgets.",
		}),
	}
	m.registry.MustRegister(m.operations, m.submissions, m.catalogLoads, m.activeWidgets)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveOperation(operation string, changed bool) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, strconv.FormatBool(changed)).Inc()
}

func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCatalogLoad(result string) {
	if m == nil {
		return
	}
	m.catalogLoads.WithLabelValues(result).Inc()
}

func (m *Metrics) WidgetMounted() {
	if m == nil {
		return
	}
	m.activeWidgets.Inc()
}

func (m *Metrics) WidgetUnmounted() {
	if m == nil {
		return
	}
	m.activeWidgets.Dec()
}
