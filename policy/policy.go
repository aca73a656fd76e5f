// Package policy contains helpers to combine mutguard.PolicySource implementations.
package policy

import (
	"context"
	"fmt"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/logging"
)

// ErrorPolicy defines what a source does when its underlying source fails.
type ErrorPolicy string

const (
	// ErrorPolicyPropagate returns the error to the caller, request fails with 500.
	ErrorPolicyPropagate ErrorPolicy = "propagate"
	// ErrorPolicyFailOpen treats failure as "mutations are not blocked".
	ErrorPolicyFailOpen ErrorPolicy = "fail_open"
	// ErrorPolicyFailClosed treats failure as "mutations are blocked".
	ErrorPolicyFailClosed ErrorPolicy = "fail_closed"
)

// Any blocks mutations if at least one of sources blocks them.
// Sources are asked in order, the first blocking answer or error stops evaluation.
func Any(sources ...mutguard.PolicySource) mutguard.PolicySource {
	return mutguard.PolicySourceFunc(func(ctx context.Context) (bool, error) {
		for _, source := range sources {
			blocked, err := source.ShouldBlockMutations(ctx)
			if err != nil {
				return false, err
			}
			if blocked {
				return true, nil
			}
		}
		return false, nil
	})
}

// All blocks mutations only if every source blocks them.
// The first non-blocking answer or error stops evaluation. No sources means no block.
func All(sources ...mutguard.PolicySource) mutguard.PolicySource {
	return mutguard.PolicySourceFunc(func(ctx context.Context) (bool, error) {
		if len(sources) == 0 {
			return false, nil
		}
		for _, source := range sources {
			blocked, err := source.ShouldBlockMutations(ctx)
			if err != nil {
				return false, err
			}
			if !blocked {
				return false, nil
			}
		}
		return true, nil
	})
}

// FailOpen returns source that allows mutations when the given source fails.
func FailOpen(source mutguard.PolicySource, logger logging.Logger) mutguard.PolicySource {
	return withFallback(source, logger, false, ErrorPolicyFailOpen)
}

// FailClosed returns source that blocks mutations when the given source fails.
func FailClosed(source mutguard.PolicySource, logger logging.Logger) mutguard.PolicySource {
	return withFallback(source, logger, true, ErrorPolicyFailClosed)
}

// WithErrorPolicy wraps source according to the given error policy.
func WithErrorPolicy(source mutguard.PolicySource, errorPolicy ErrorPolicy, logger logging.Logger) (mutguard.PolicySource, error) {
	switch errorPolicy {
	case ErrorPolicyPropagate, "":
		return source, nil
	case ErrorPolicyFailOpen:
		return FailOpen(source, logger), nil
	case ErrorPolicyFailClosed:
		return FailClosed(source, logger), nil
	default:
		return nil, fmt.Errorf("unknown error policy '%s'", errorPolicy)
	}
}

func withFallback(source mutguard.PolicySource, logger logging.Logger, fallback bool, errorPolicy ErrorPolicy) mutguard.PolicySource {
	return mutguard.PolicySourceFunc(func(ctx context.Context) (bool, error) {
		blocked, err := source.ShouldBlockMutations(ctx)
		if err != nil {
			logger.Error().
				Error(err).
				String("error_policy", string(errorPolicy)).
				Bool(mutguard.LogFieldNamePolicyBlocked, fallback).
				Msg("Policy source failed, using fallback")
			return fallback, nil
		}
		return blocked, nil
	})
}

type writableSource struct {
	mutguard.PolicySource
	writer mutguard.PolicyStateWriter
}

func (source writableSource) SetBlocked(ctx context.Context, blocked bool, actor string) error {
	return source.writer.SetBlocked(ctx, blocked, actor)
}

// WithStateWriter returns source answering like the given one and changing state through writer.
// It keeps combined or wrapped sources writable.
func WithStateWriter(source mutguard.PolicySource, writer mutguard.PolicyStateWriter) mutguard.PolicySource {
	if writer == nil {
		return source
	}
	return writableSource{PolicySource: source, writer: writer}
}
