// Package expression provides a policy source evaluating a boolean expression on every request.
//
// Expression variables are environment variables (missing ones are empty strings)
// and current time values: hour, minute and weekday (e.g. 'Sunday').
//
//	BLOCK_MUTATIONS == 'true' && APP_ENV != 'development'
//	weekday == 'Sunday' && hour >= 2 && hour < 4
package expression

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/moira-alert/mutguard"
)

// ErrInvalidExpression represents bad expression or its evaluation error
type ErrInvalidExpression struct {
	expression    string
	internalError error
}

func (err ErrInvalidExpression) Error() string {
	return fmt.Sprintf("invalid expression '%s': %s", err.expression, err.internalError.Error())
}

func (err ErrInvalidExpression) Unwrap() error {
	return err.internalError
}

type lookupEnvFunc func(string) (string, bool)

// Source evaluates compiled expression.
type Source struct {
	raw        string
	expression *govaluate.EvaluableExpression
	location   *time.Location
	clock      mutguard.Clock
	lookupEnv  lookupEnvFunc
}

// NewSource compiles expression. Location is IANA time zone used for time variables, UTC if empty.
func NewSource(expression, location string, clock mutguard.Clock) (*Source, error) {
	compiled, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, ErrInvalidExpression{expression: expression, internalError: err}
	}

	loc := time.UTC
	if location != "" {
		if loc, err = time.LoadLocation(location); err != nil {
			return nil, fmt.Errorf("failed to load location '%s': %w", location, err)
		}
	}

	return &Source{
		raw:        expression,
		expression: compiled,
		location:   loc,
		clock:      clock,
		lookupEnv:  os.LookupEnv,
	}, nil
}

// String returns the source expression.
func (source *Source) String() string {
	return source.raw
}

// ShouldBlockMutations evaluates expression. Non-boolean result is an error.
func (source *Source) ShouldBlockMutations(_ context.Context) (bool, error) {
	result, err := source.expression.Eval(parameters{
		now:       source.clock.NowUTC().In(source.location),
		lookupEnv: source.lookupEnv,
	})
	if err != nil {
		return false, ErrInvalidExpression{expression: source.raw, internalError: err}
	}

	blocked, ok := result.(bool)
	if !ok {
		return false, ErrInvalidExpression{
			expression:    source.raw,
			internalError: fmt.Errorf("expression result must be bool, got %T", result),
		}
	}
	return blocked, nil
}

type parameters struct {
	now       time.Time
	lookupEnv lookupEnvFunc
}

// Get realizing govaluate.Parameters interface used in evaluable expression
func (params parameters) Get(name string) (interface{}, error) {
	switch name {
	case "hour":
		return float64(params.now.Hour()), nil
	case "minute":
		return float64(params.now.Minute()), nil
	case "weekday":
		return params.now.Weekday().String(), nil
	default:
		value, _ := params.lookupEnv(name)
		return value, nil
	}
}
