package api

import "net/url"

// Config for gateway configuration variables.
type Config struct {
	EnableCORS bool
	Listen     string
	Upstream   *url.URL
	// AdminPrefix is the route group serving mutguard own endpoints, always overridden.
	AdminPrefix string
	// ResolverCacheSize limits cached route resolutions, 0 disables cache.
	ResolverCacheSize int
}
