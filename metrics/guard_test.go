package metrics

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGuardMetrics(t *testing.T) {
	Convey("Guard metrics over prometheus registry", t, func() {
		registry := NewPrometheusRegistryAdapter(NewPrometheusRegistry(), "gateway")
		guardMetrics := ConfigureGuardMetrics(registry)

		guardMetrics.MarkOutcome("allowed_by_override")
		guardMetrics.MarkOutcome("denied")
		guardMetrics.MarkOutcome("denied")
		guardMetrics.MarkOutcome("something_else")
		guardMetrics.MarkPolicyFailure()
		guardMetrics.UpdatePolicyTime(time.Now().Add(-time.Millisecond))

		So(guardMetrics.AllowedByOverride.Count(), ShouldEqual, 1)
		So(guardMetrics.AllowedByPolicy.Count(), ShouldEqual, 0)
		So(guardMetrics.AllowedSafeMethod.Count(), ShouldEqual, 0)
		So(guardMetrics.Denied.Count(), ShouldEqual, 2)
		So(guardMetrics.PolicyFailures.Count(), ShouldEqual, 1)
		So(guardMetrics.PolicyTimer.Count(), ShouldEqual, 1)
	})

	Convey("Composite registry marks every registry", t, func() {
		graphiteRegistry, err := NewGraphiteRegistry(GraphiteRegistryConfig{}, "gateway")
		So(err, ShouldBeNil)
		prometheusRegistry := NewPrometheusRegistryAdapter(NewPrometheusRegistry(), "gateway")

		guardMetrics := ConfigureGuardMetrics(NewCompositeRegistry(graphiteRegistry, prometheusRegistry))
		guardMetrics.MarkOutcome("allowed_by_policy")

		So(guardMetrics.AllowedByPolicy.Count(), ShouldEqual, 1)
	})

	Convey("Nil guard metrics do nothing", t, func() {
		var guardMetrics *GuardMetrics
		So(func() {
			guardMetrics.MarkOutcome("denied")
			guardMetrics.MarkPolicyFailure()
			guardMetrics.UpdatePolicyTime(time.Now())
		}, ShouldNotPanic)
	})
}

func TestMetricNames(t *testing.T) {
	Convey("Metric names", t, func() {
		So(metricName(".", "mutguard", "guard", "denied"), ShouldEqual, "mutguard.guard.denied")
		So(metricName("_", "guard", "denied"), ShouldEqual, "guard_denied")
		So(metricName("_", "", "guard", "policy-source"), ShouldEqual, "guard_policy_source")
		So(ReplaceNonAllowedMetricCharacters("gateway-01.local"), ShouldEqual, "gateway_01_local")
	})

	Convey("Graphite prefix", t, func() {
		hostname := func() (string, error) { return "gw-01.example.com", nil }

		prefix, err := graphitePrefix("mutguard", hostname)
		So(err, ShouldBeNil)
		So(prefix, ShouldEqual, "mutguard")

		prefix, err = graphitePrefix("mutguard.{hostname}", hostname)
		So(err, ShouldBeNil)
		So(prefix, ShouldEqual, "mutguard.gw_01")

		_, err = graphitePrefix("{hostname}", func() (string, error) { return "", errors.New("no hostname") })
		So(err, ShouldNotBeNil)
	})
}

func TestPrometheusRegistryAdapter(t *testing.T) {
	Convey("Counters and timers are exported with service subsystem", t, func() {
		registry := NewPrometheusRegistry()
		adapter := NewPrometheusRegistryAdapter(registry, "gateway-01")

		adapter.NewCounter("guard", "denied").Inc()
		timer := adapter.NewTimer("guard", "policy")
		timer.UpdateSince(time.Now().Add(-2 * time.Millisecond))
		So(timer.Count(), ShouldEqual, 1)

		families, err := registry.Gather()
		So(err, ShouldBeNil)

		names := make([]string, 0, len(families))
		for _, family := range families {
			names = append(names, family.GetName())
		}
		So(names, ShouldContain, "mutguard_gateway_01_guard_denied")
		So(names, ShouldContain, "mutguard_gateway_01_guard_policy")
	})

	Convey("Composite without registries counts nothing", t, func() {
		composite := NewCompositeRegistry()
		counter := composite.NewCounter("guard", "denied")
		So(func() { counter.Inc() }, ShouldNotPanic)
		So(counter.Count(), ShouldEqual, 0)
	})
}
