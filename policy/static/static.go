// Package static provides an in-memory policy source whose flag is changed through code.
package static

import (
	"context"
	"sync/atomic"
)

// Source keeps the flag in memory. It is safe for concurrent use.
type Source struct {
	blocked atomic.Bool
}

// NewSource creates Source with the given initial state.
func NewSource(blocked bool) *Source {
	source := &Source{}
	source.blocked.Store(blocked)
	return source
}

// ShouldBlockMutations returns the current flag.
func (source *Source) ShouldBlockMutations(_ context.Context) (bool, error) {
	return source.blocked.Load(), nil
}

// Set changes the flag.
func (source *Source) Set(blocked bool) {
	source.blocked.Store(blocked)
}

// SetBlocked changes the flag. Actor is ignored, static source does not keep history.
func (source *Source) SetBlocked(_ context.Context, blocked bool, _ string) error {
	source.Set(blocked)
	return nil
}
