package metrics

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	goMetricsGraphite "github.com/cyberdelia/go-metrics-graphite"
	goMetrics "github.com/rcrowley/go-metrics"
)

const hostnameTmpl = "{hostname}"

// GraphiteRegistryConfig is graphite sender settings. {hostname} in Prefix is replaced with short OS hostname.
type GraphiteRegistryConfig struct {
	Enabled      bool
	RuntimeStats bool
	URI          string
	Prefix       string
	Interval     time.Duration
}

// GraphiteRegistry implements Registry on top of go-metrics.
// Values are flushed to graphite as <prefix>.<service>.<path> every Interval when enabled.
type GraphiteRegistry struct {
	registry goMetrics.Registry
}

func NewGraphiteRegistry(config GraphiteRegistryConfig, service string) (*GraphiteRegistry, error) {
	registry := goMetrics.NewRegistry()
	if !config.Enabled {
		return &GraphiteRegistry{registry}, nil
	}

	address, err := net.ResolveTCPAddr("tcp", config.URI)
	if err != nil {
		return nil, fmt.Errorf("can't resolve graphite uri %s: %w", config.URI, err)
	}
	prefix, err := graphitePrefix(config.Prefix, os.Hostname)
	if err != nil {
		return nil, fmt.Errorf("can't get OS hostname for prefix %s: %w", config.Prefix, err)
	}

	if config.RuntimeStats {
		goMetrics.RegisterRuntimeMemStats(registry)
		go goMetrics.CaptureRuntimeMemStats(registry, config.Interval)
	}
	go goMetricsGraphite.Graphite(registry, config.Interval, strings.TrimPrefix(prefix+"."+metricName(".", service), "."), address)

	return &GraphiteRegistry{registry}, nil
}

// NewTimer registers go-metrics timer, it already satisfies Timer.
func (graphite *GraphiteRegistry) NewTimer(path ...string) Timer {
	return goMetrics.NewRegisteredTimer(metricName(".", path...), graphite.registry)
}

func (graphite *GraphiteRegistry) NewCounter(path ...string) Counter {
	return &graphiteCounter{goMetrics.NewRegisteredCounter(metricName(".", path...), graphite.registry)}
}

func graphitePrefix(prefix string, hostname func() (string, error)) (string, error) {
	if !strings.Contains(prefix, hostnameTmpl) {
		return prefix, nil
	}
	name, err := hostname()
	if err != nil {
		return prefix, err
	}
	short := strings.Split(name, ".")[0]
	return strings.ReplaceAll(prefix, hostnameTmpl, ReplaceNonAllowedMetricCharacters(short)), nil
}

type graphiteCounter struct {
	counter goMetrics.Counter
}

func (counter *graphiteCounter) Inc() {
	counter.counter.Inc(1)
}

func (counter *graphiteCounter) Count() int64 {
	return counter.counter.Count()
}
