// Package route keeps per-route AllowMutations overrides and resolves requests to chi route patterns.
package route

import (
	"sort"
	"strings"
	"sync"

	"github.com/moira-alert/mutguard"
)

// AnyMethod registers handler override for every method of the pattern.
const AnyMethod = "*"

// HandlerOverride is a handler registered in Registry.
type HandlerOverride struct {
	Method   string
	Pattern  string
	Override mutguard.Override
}

type handlerKey struct {
	method  string
	pattern string
}

// Registry stores overrides for handlers (method + route pattern) and for groups (route pattern prefix).
// Handler override always wins over group override, the longest group prefix wins over shorter ones.
// Registry is safe for concurrent use.
type Registry struct {
	mutex    sync.RWMutex
	handlers map[handlerKey]mutguard.Override
	groups   map[string]mutguard.Override
}

// NewRegistry creates empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[handlerKey]mutguard.Override),
		groups:   make(map[string]mutguard.Override),
	}
}

// AllowHandler marks handler as exempt from mutation blocking.
func (registry *Registry) AllowHandler(method, pattern string) *Registry {
	return registry.SetHandler(method, pattern, true)
}

// AllowGroup marks every route under prefix as exempt from mutation blocking.
func (registry *Registry) AllowGroup(prefix string) *Registry {
	return registry.SetGroup(prefix, true)
}

// SetHandler registers explicit handler override. Use AnyMethod to match every method.
// allow=false cancels the group override for this handler.
func (registry *Registry) SetHandler(method, pattern string, allow bool) *Registry {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	registry.handlers[handlerKey{method: normalizeMethod(method), pattern: NormalizePattern(pattern)}] = mutguard.OverrideFromBool(allow)
	return registry
}

// SetGroup registers explicit group override.
func (registry *Registry) SetGroup(prefix string, allow bool) *Registry {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	registry.groups[NormalizePattern(prefix)] = mutguard.OverrideFromBool(allow)
	return registry
}

// Lookup returns the most specific override registered for the route.
func (registry *Registry) Lookup(method, pattern string) mutguard.Override {
	pattern = NormalizePattern(pattern)

	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	if override, ok := registry.handlers[handlerKey{method: normalizeMethod(method), pattern: pattern}]; ok {
		return override
	}
	if override, ok := registry.handlers[handlerKey{method: AnyMethod, pattern: pattern}]; ok {
		return override
	}

	result := mutguard.OverrideUnset
	longest := -1
	for prefix, override := range registry.groups {
		if len(prefix) > longest && hasPathPrefix(pattern, prefix) {
			result = override
			longest = len(prefix)
		}
	}
	return result
}

// Empty returns true if nothing was registered.
func (registry *Registry) Empty() bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	return len(registry.handlers) == 0 && len(registry.groups) == 0
}

// Handlers returns registered handler overrides ordered by pattern and method.
func (registry *Registry) Handlers() []HandlerOverride {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	handlers := make([]HandlerOverride, 0, len(registry.handlers))
	for key, override := range registry.handlers {
		handlers = append(handlers, HandlerOverride{Method: key.method, Pattern: key.pattern, Override: override})
	}
	sort.Slice(handlers, func(i, j int) bool {
		if handlers[i].Pattern != handlers[j].Pattern {
			return handlers[i].Pattern < handlers[j].Pattern
		}
		return handlers[i].Method < handlers[j].Method
	})
	return handlers
}

// Groups returns registered group prefixes in lexical order.
func (registry *Registry) Groups() []string {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	groups := make([]string, 0, len(registry.groups))
	for prefix := range registry.groups {
		groups = append(groups, prefix)
	}
	sort.Strings(groups)
	return groups
}

// NormalizePattern removes trailing slash, trailing catch-all and mounted sub-router wildcards
// so "/api/*/trigger/", "/api/trigger/*" and "/api/trigger" are the same pattern.
func NormalizePattern(pattern string) string {
	if pattern == "" {
		return "/"
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	for strings.Contains(pattern, "/*/") {
		pattern = strings.ReplaceAll(pattern, "/*/", "/")
	}
	for strings.Contains(pattern, "//") {
		pattern = strings.ReplaceAll(pattern, "//", "/")
	}
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" || pattern == "*" {
		return "/"
	}
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return pattern
}

func hasPathPrefix(pattern, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(pattern, prefix) {
		return false
	}
	return len(pattern) == len(prefix) || pattern[len(prefix)] == '/'
}

func normalizeMethod(method string) string {
	if method == "" || method == AnyMethod {
		return AnyMethod
	}
	return strings.ToUpper(method)
}
