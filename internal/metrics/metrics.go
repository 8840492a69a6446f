// Package metrics exposes Prometheus counters for registrations, option
// lookups and exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	submissions       *prometheus.CounterVec
	optionResolutions *prometheus.CounterVec
	exports           prometheus.Counter
}

// New registers the service counters, plus Go runtime and process
// collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_submissions_total",
			Help: "Registration submissions by outcome.",
		}, []string{"outcome"}),
		optionResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventreg_option_resolutions_total",
			Help: "Dependent dropdown resolutions by changed field.",
		}, []string{"field"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventreg_exports_total",
			Help: "CSV exports of the registration report.",
		}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.optionResolutions,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveOptionResolution(field string) {
	m.optionResolutions.WithLabelValues(field).Inc()
}

func (m *Metrics) ObserveExport() {
	m.exports.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
