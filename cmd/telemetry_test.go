package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/moira-alert/mutguard/metrics"
)

func TestConfigureTelemetry(t *testing.T) {
	Convey("Prometheus metrics are exposed", t, func() {
		serverMux := http.NewServeMux()
		registry, err := configureTelemetry(TelemetryConfig{
			Prometheus: PrometheusConfig{Enabled: true},
			Pprof:      ProfilerConfig{Enabled: true},
		}, "gateway", serverMux)
		So(err, ShouldBeNil)

		guardMetrics := metrics.ConfigureGuardMetrics(registry)
		guardMetrics.MarkOutcome("denied")

		recorder := httptest.NewRecorder()
		serverMux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		So(recorder.Code, ShouldEqual, http.StatusOK)

		body, err := io.ReadAll(recorder.Body)
		So(err, ShouldBeNil)
		So(string(body), ShouldContainSubstring, "mutguard_gateway_guard_denied 1")

		recorder = httptest.NewRecorder()
		serverMux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/pprof/", nil))
		So(recorder.Code, ShouldEqual, http.StatusOK)
	})

	Convey("Without exporters registry still works", t, func() {
		registry, err := configureTelemetry(TelemetryConfig{}, "gateway", http.NewServeMux())
		So(err, ShouldBeNil)
		So(func() { metrics.ConfigureGuardMetrics(registry).MarkOutcome("denied") }, ShouldNotPanic)
	})
}
