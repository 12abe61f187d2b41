// Package metrics exposes Prometheus counters for parse calls.
//
// Metrics:
//   - parsercache_parses_total: parse calls by extension and status
//   - parsercache_parse_duration_seconds: time from parse call to callback
//   - parsercache_stack_size: number of parsers in the resolved stack
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parsercache"

// Status label values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collector records parse metrics on its own registry
type Collector struct {
	registry *prometheus.Registry

	parsesTotal   *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	stackSize     *prometheus.HistogramVec
}

// NewCollector creates a collector. If registry is nil a fresh one is used.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parses_total",
				Help:      "Total number of parse calls",
			},
			[]string{"ext", "status"},
		),
		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Duration of parse calls in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"ext"},
		),
		stackSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stack_size",
				Help:      "Number of parsers in the resolved stack",
				Buckets:   []float64{0, 1, 2, 4, 8, 16},
			},
			[]string{"ext"},
		),
	}

	registry.MustRegister(c.parsesTotal, c.parseDuration, c.stackSize)
	return c
}

// ObserveParse records one settled parse call
func (c *Collector) ObserveParse(ext string, err error, duration time.Duration) {
	ext = label(ext)
	status := StatusOK
	if err != nil {
		status = StatusError
	}

	c.parsesTotal.WithLabelValues(ext, status).Inc()
	c.parseDuration.WithLabelValues(ext).Observe(duration.Seconds())
}

// ObserveStack records the size of a resolved stack
func (c *Collector) ObserveStack(ext string, size int) {
	c.stackSize.WithLabelValues(label(ext)).Observe(float64(size))
}

// Parses returns the counter for one ext and status pair
func (c *Collector) Parses(ext, status string) prometheus.Counter {
	return c.parsesTotal.WithLabelValues(label(ext), status)
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func label(ext string) string {
	if ext == "" {
		return "none"
	}
	return ext
}
