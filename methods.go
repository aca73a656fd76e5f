package mutguard

import (
	"net/http"
	"strings"
)

// MethodClass is the result of classifying an HTTP method.
type MethodClass int

const (
	// MethodNotMutation means the method is never blocked.
	MethodNotMutation MethodClass = iota
	// MethodMutation means the method is blocked while mutations are disabled.
	MethodMutation
)

func (class MethodClass) String() string {
	if class == MethodMutation {
		return "mutation"
	}
	return "not_mutation"
}

var mutationMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// MutationMethods returns the methods that are blocked while mutations are disabled.
func MutationMethods() []string {
	return []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
}

// ClassifyMethod reports whether the given method mutates server state.
// Comparison is case-insensitive. Unknown and empty methods are never mutations.
func ClassifyMethod(method string) MethodClass {
	if _, ok := mutationMethods[strings.ToUpper(method)]; ok {
		return MethodMutation
	}
	return MethodNotMutation
}

// IsMutationMethod is a shortcut for ClassifyMethod(method) == MethodMutation.
func IsMutationMethod(method string) bool {
	return ClassifyMethod(method) == MethodMutation
}
