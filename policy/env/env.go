// Package env provides the default policy source, which reads the mutation block flag from the process environment.
package env

import (
	"context"
	"os"
)

const (
	// DefaultVariable is the environment variable consulted by NewDefaultSource.
	DefaultVariable = "BLOCK_MUTATIONS"
	blockedValue    = "true"
)

// Source blocks mutations while the environment variable equals exactly "true".
// Any other value, including "TRUE", "1" or an empty string, means mutations are allowed.
type Source struct {
	variable string
}

// NewSource creates Source reading the given variable.
func NewSource(variable string) *Source {
	return &Source{variable: variable}
}

// NewDefaultSource creates Source reading BLOCK_MUTATIONS.
func NewDefaultSource() *Source {
	return NewSource(DefaultVariable)
}

// Variable returns name of the environment variable.
func (source *Source) Variable() string {
	return source.variable
}

// ShouldBlockMutations reads the variable on every call, so toggling it at runtime takes effect immediately.
func (source *Source) ShouldBlockMutations(_ context.Context) (bool, error) {
	return os.Getenv(source.variable) == blockedValue, nil
}
