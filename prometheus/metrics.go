// Package prometheus records rfcli service metrics with the Prometheus
// client library. Metrics live in a private registry that is written to a
// node_exporter textfile at the end of each run.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rfcli"

// Metrics holds the collectors shared by the decorators in this package.
type Metrics struct {
	reg *prometheus.Registry

	cacheRequests  *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	fetchErrors    *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchResults  prometheus.Histogram
	tldrOutcomes   *prometheus.CounterVec
}

// NewMetrics creates the collectors in a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Content cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		fetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of RFC body downloads.",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed RFC body downloads by error code.",
		}, []string{"code"}),
		searchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Latency of fuzzy catalog queries.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		searchResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
		tldrOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tldr_total",
			Help:      "TLDR requests by outcome.",
		}, []string{"outcome"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
