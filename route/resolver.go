package route

import (
	"fmt"
	"strings"

	"github.com/go-chi/chi"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultResolverCacheSize is used by gateway when config does not set it.
const DefaultResolverCacheSize = 4096

type resolved struct {
	pattern string
	found   bool
}

// Resolver finds chi route pattern serving method and path without executing handlers.
type Resolver struct {
	routes chi.Routes
	cache  *lru.Cache[string, resolved]
}

// NewResolver creates Resolver over routes. cacheSize <= 0 disables result cache.
func NewResolver(routes chi.Routes, cacheSize int) (*Resolver, error) {
	resolver := &Resolver{routes: routes}
	if cacheSize > 0 {
		cache, err := lru.New[string, resolved](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create route cache: %w", err)
		}
		resolver.cache = cache
	}
	return resolver, nil
}

// Resolve returns normalized route pattern, false if no route matches.
func (resolver *Resolver) Resolve(method, path string) (string, bool) {
	key := method + " " + path
	if resolver.cache != nil {
		if cached, ok := resolver.cache.Get(key); ok {
			return cached.pattern, cached.found
		}
	}

	result := resolved{}
	routeContext := chi.NewRouteContext()
	if resolver.routes.Match(routeContext, method, path) {
		result = resolved{
			pattern: NormalizePattern(strings.Join(routeContext.RoutePatterns, "")),
			found:   true,
		}
	}

	if resolver.cache != nil {
		resolver.cache.Add(key, result)
	}
	return result.pattern, result.found
}
