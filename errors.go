package mutguard

import (
	"errors"
	"fmt"
)

// ErrNilPolicySource is returned by Decide when it has to consult a policy source but none was given.
var ErrNilPolicySource = errors.New("policy source is not configured")

// BlockedError means that request was rejected because mutations are blocked
// and the route has no AllowMutations override.
type BlockedError struct {
	Method string
}

// NewBlockedError creates BlockedError for the given method. The method is uppercased.
func NewBlockedError(method string) *BlockedError {
	return &BlockedError{Method: canonicalMethod(method)}
}

func (err *BlockedError) Error() string {
	return fmt.Sprintf("HTTP %s mutations are currently blocked. Use the AllowMutations override to override.", err.Method)
}

// PolicySourceError means that policy source failed to answer.
// Such error is neither an allow nor a deny and must be surfaced to the caller.
type PolicySourceError struct {
	Err error
}

func (err *PolicySourceError) Error() string {
	return fmt.Sprintf("failed to evaluate mutations policy: %s", err.Err.Error())
}

func (err *PolicySourceError) Unwrap() error {
	return err.Err
}
