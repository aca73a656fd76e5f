package metrics

import "time"

// GuardMetrics is a collection of metrics used by mutations guard.
type GuardMetrics struct {
	AllowedByOverride Counter
	AllowedByPolicy   Counter
	AllowedSafeMethod Counter
	Denied            Counter
	PolicyFailures    Counter
	PolicyTimer       Timer
}

// ConfigureGuardMetrics is mutations guard metrics configurator.
func ConfigureGuardMetrics(registry Registry) *GuardMetrics {
	return &GuardMetrics{
		AllowedByOverride: registry.NewCounter("guard", "allowed_by_override"),
		AllowedByPolicy:   registry.NewCounter("guard", "allowed_by_policy"),
		AllowedSafeMethod: registry.NewCounter("guard", "allowed_safe_method"),
		Denied:            registry.NewCounter("guard", "denied"),
		PolicyFailures:    registry.NewCounter("guard", "policy_failures"),
		PolicyTimer:       registry.NewTimer("guard", "policy"),
	}
}

// MarkOutcome increments counter matching decision outcome.
// Unknown outcomes are ignored.
func (metrics *GuardMetrics) MarkOutcome(outcome string) {
	if metrics == nil {
		return
	}
	switch outcome {
	case "allowed_by_override":
		metrics.AllowedByOverride.Inc()
	case "allowed_by_policy":
		metrics.AllowedByPolicy.Inc()
	case "allowed_safe_method":
		metrics.AllowedSafeMethod.Inc()
	case "denied":
		metrics.Denied.Inc()
	}
}

// MarkPolicyFailure increments policy source failures counter.
func (metrics *GuardMetrics) MarkPolicyFailure() {
	if metrics == nil {
		return
	}
	metrics.PolicyFailures.Inc()
}

// UpdatePolicyTime records time spent since start in policy source.
func (metrics *GuardMetrics) UpdatePolicyTime(start time.Time) {
	if metrics == nil {
		return
	}
	metrics.PolicyTimer.UpdateSince(start)
}
