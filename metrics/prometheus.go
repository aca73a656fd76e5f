package metrics

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "mutguard"

// policyLatencyBuckets cover in-process sources (microseconds) up to remote sources hitting their timeout.
var policyLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// NewPrometheusRegistry creates prometheus registry with go and process collectors.
func NewPrometheusRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// PrometheusRegistryAdapter implements Registry on top of prometheus registry.
// Metrics are named mutguard_<service>_<path joined with underscore>.
type PrometheusRegistryAdapter struct {
	registry *prometheus.Registry
	service  string
}

func NewPrometheusRegistryAdapter(registry *prometheus.Registry, service string) *PrometheusRegistryAdapter {
	return &PrometheusRegistryAdapter{registry: registry, service: ReplaceNonAllowedMetricCharacters(service)}
}

// NewTimer registers histogram of durations in seconds.
func (adapter *PrometheusRegistryAdapter) NewTimer(path ...string) Timer {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: adapter.service,
		Name:      metricName("_", path...),
		Help:      "Duration of " + strings.Join(path, " ") + " in seconds.",
		Buckets:   policyLatencyBuckets,
	})
	adapter.registry.MustRegister(histogram)
	return &prometheusTimer{histogram: histogram}
}

func (adapter *PrometheusRegistryAdapter) NewCounter(path ...string) Counter {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: adapter.service,
		Name:      metricName("_", path...),
		Help:      "Number of " + strings.Join(path, " ") + " events.",
	})
	adapter.registry.MustRegister(counter)
	return &prometheusCounter{counter: counter}
}

type prometheusTimer struct {
	histogram prometheus.Histogram
	count     atomic.Int64
}

func (timer *prometheusTimer) UpdateSince(ts time.Time) {
	timer.histogram.Observe(time.Since(ts).Seconds())
	timer.count.Add(1)
}

func (timer *prometheusTimer) Count() int64 {
	return timer.count.Load()
}

type prometheusCounter struct {
	counter prometheus.Counter
	count   atomic.Int64
}

func (counter *prometheusCounter) Inc() {
	counter.counter.Inc()
	counter.count.Add(1)
}

func (counter *prometheusCounter) Count() int64 {
	return counter.count.Load()
}
