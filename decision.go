package mutguard

import (
	"context"
	"strings"
)

// Outcome describes how a decision was reached.
type Outcome string

const (
	// OutcomeAllowedByOverride means the route carries AllowMutations override, policy source was not consulted.
	OutcomeAllowedByOverride Outcome = "allowed_by_override"
	// OutcomeAllowedByPolicy means mutations are not blocked right now.
	OutcomeAllowedByPolicy Outcome = "allowed_by_policy"
	// OutcomeAllowedSafeMethod means mutations are blocked but the method is not a mutation.
	OutcomeAllowedSafeMethod Outcome = "allowed_safe_method"
	// OutcomeDenied means mutations are blocked and the method is a mutation.
	OutcomeDenied Outcome = "denied"
)

// Decision is the result of Decide. It is computed fresh for every request.
type Decision struct {
	Outcome Outcome
	// Method is uppercased request method.
	Method string
}

// Allowed returns true if request may proceed.
func (decision Decision) Allowed() bool {
	return decision.Outcome != OutcomeDenied
}

// Err returns BlockedError for denied decisions and nil otherwise.
func (decision Decision) Err() error {
	if decision.Allowed() {
		return nil
	}
	return NewBlockedError(decision.Method)
}

// Decide evaluates whether a request with given method may proceed.
//
// The override is checked first: an OverrideAllow route is allowed without
// calling source at all. Otherwise the source is asked whether mutations are
// blocked and, if they are, mutation methods are denied.
// A failing source is reported as PolicySourceError and is never turned into
// an allow or a deny.
func Decide(ctx context.Context, override Override, source PolicySource, method string) (Decision, error) {
	decision := Decision{Method: canonicalMethod(method)}

	if override == OverrideAllow {
		decision.Outcome = OutcomeAllowedByOverride
		return decision, nil
	}

	if source == nil {
		return Decision{}, ErrNilPolicySource
	}

	blocked, err := source.ShouldBlockMutations(ctx)
	if err != nil {
		return Decision{}, &PolicySourceError{Err: err}
	}
	if !blocked {
		decision.Outcome = OutcomeAllowedByPolicy
		return decision, nil
	}

	if ClassifyMethod(method) == MethodNotMutation {
		decision.Outcome = OutcomeAllowedSafeMethod
		return decision, nil
	}

	decision.Outcome = OutcomeDenied
	return decision, nil
}

func canonicalMethod(method string) string {
	return strings.ToUpper(method)
}
