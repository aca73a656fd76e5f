package mutguard

import (
	"context"
	"time"
)

// PolicySource answers whether mutating requests are currently blocked.
// Implementations are queried on every request, so a change of the underlying
// state is visible on the very next call.
type PolicySource interface {
	ShouldBlockMutations(ctx context.Context) (bool, error)
}

// PolicySourceFunc adapts an ordinary function to the PolicySource interface.
type PolicySourceFunc func(ctx context.Context) (bool, error)

// ShouldBlockMutations calls f(ctx).
func (f PolicySourceFunc) ShouldBlockMutations(ctx context.Context) (bool, error) {
	return f(ctx)
}

// PolicyStateWriter is implemented by policy sources whose state can be changed at runtime.
type PolicyStateWriter interface {
	SetBlocked(ctx context.Context, blocked bool, actor string) error
}

// Clock implements time related functionality.
type Clock interface {
	NowUTC() time.Time
	NowUnix() int64
}
