package cmd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moira-alert/mutguard/logging"
	"github.com/moira-alert/mutguard/metrics"
)

const defaultMetricsPath = "/metrics"

// Telemetry holds metrics registry exposed by telemetry listener.
type Telemetry struct {
	Metrics  metrics.Registry
	stopFunc func()
}

// Stop shuts telemetry listener down.
func (source *Telemetry) Stop() {
	source.stopFunc()
}

// ConfigureTelemetry starts telemetry listener with enabled exporters.
func ConfigureTelemetry(logger logging.Logger, config TelemetryConfig, service string) (*Telemetry, error) {
	listener, err := net.Listen("tcp", config.Listen)
	if err != nil {
		return nil, err
	}

	serverMux := http.NewServeMux()
	metricsRegistry, err := configureTelemetry(config, service, serverMux)
	if err != nil {
		listener.Close() //nolint
		return nil, err
	}

	server := &http.Server{Handler: serverMux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		server.Serve(listener) //nolint
	}()

	return &Telemetry{
		Metrics: metricsRegistry,
		stopFunc: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error().
					Error(err).
					Msg("Can't stop telemetry server correctly")
			}
		},
	}, nil
}

func configureTelemetry(config TelemetryConfig, service string, serverMux *http.ServeMux) (metrics.Registry, error) {
	metricRegistries := []metrics.Registry{}

	if config.Pprof.Enabled {
		configurePprofServer(serverMux)
	}

	if config.Prometheus.Enabled {
		prometheusRegistry := metrics.NewPrometheusRegistry()
		prometheusRegistryAdapter := metrics.NewPrometheusRegistryAdapter(prometheusRegistry, service)
		metricRegistries = append(metricRegistries, prometheusRegistryAdapter)

		metricsPath := config.Prometheus.MetricsPath
		if metricsPath == "" {
			metricsPath = defaultMetricsPath
		}
		serverMux.Handle(metricsPath, promhttp.InstrumentMetricHandler(prometheusRegistry, promhttp.HandlerFor(prometheusRegistry, promhttp.HandlerOpts{})))
	}

	if config.Graphite.Enabled {
		graphiteRegistry, err := metrics.NewGraphiteRegistry(config.Graphite.GetSettings(), service)
		if err != nil {
			return nil, err
		}

		metricRegistries = append(metricRegistries, graphiteRegistry)
	}

	return metrics.NewCompositeRegistry(metricRegistries...), nil
}
