// Package metrics exposes Prometheus collectors for the analysis pipeline.
//
// All methods are safe on a nil *Metrics so components can run without
// instrumentation in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phishguard/internal/domain"
)

const namespace = "phishguard"

// Failure reasons.
const (
	ReasonInvalidURL = "invalid_url"
	ReasonInternal   = "internal"
)

// Acquisition sources.
const (
	SourceDocument     = "document"
	SourceDNS          = "dns"
	SourceRegistration = "registration"
)

type Metrics struct {
	registry *prometheus.Registry

	analyses *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	misses   *prometheus.CounterVec
	dropped  prometheus.Counter
}

// New registers the collectors on a private registry together with the
// standard Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed URL analyses by classification.",
		}, []string{"classification"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Analyses that returned no report, by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full analysis including acquisition.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisition_misses_total",
			Help:      "Acquisition calls that degraded to absent data, by source.",
		}, []string{"source"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_dropped_total",
			Help:      "Audit verdicts dropped because the write queue was full.",
		}),
	}
	reg.MustRegister(m.analyses, m.failures, m.duration, m.misses, m.dropped)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAnalysis(c domain.Classification, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(c)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) AnalysisFailed(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) AcquisitionMiss(source string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(source).Inc()
}

func (m *Metrics) VerdictDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}
