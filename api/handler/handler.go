package handler

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	guardmiddle "github.com/moira-alert/mutguard/api/middleware"
	"github.com/moira-alert/mutguard/logging"
	"github.com/moira-alert/mutguard/metrics"
	"github.com/moira-alert/mutguard/route"
)

// DefaultAdminPrefix is the route group of mutguard own endpoints.
const DefaultAdminPrefix = "/mutguard"

// NewHandler creates gateway handler based on github.com/go-chi/chi.
// Requests pass MutationsGuard and go to upstream unless they target admin routes.
// Every route registered in registry is added to the router, so its pattern can be resolved.
func NewHandler(
	config *api.Config,
	source mutguard.PolicySource,
	registry *route.Registry,
	logger logging.Logger,
	guardMetrics *metrics.GuardMetrics,
) (http.Handler, error) {
	adminPrefix := route.NormalizePattern(config.AdminPrefix)
	if config.AdminPrefix == "" {
		adminPrefix = DefaultAdminPrefix
	}
	registry.AllowGroup(adminPrefix)

	router := chi.NewRouter()
	resolver, err := route.NewResolver(router, config.ResolverCacheSize)
	if err != nil {
		return nil, err
	}

	router.Use(guardmiddle.CleanPath)
	router.Use(guardmiddle.UserContext)
	router.Use(guardmiddle.RequestLogger(logger))
	router.Use(guardmiddle.MutationsGuard(guardmiddle.GuardConfig{
		Source:  source,
		Lookup:  guardmiddle.RegistryOverrideLookup(registry, resolver),
		Logger:  logger,
		Metrics: guardMetrics,
	}))

	proxy := newUpstreamProxy(config.Upstream, logger)
	router.NotFound(proxy.ServeHTTP)
	router.MethodNotAllowed(proxy.ServeHTTP)

	for _, override := range registry.Handlers() {
		if override.Method == route.AnyMethod {
			router.Handle(override.Pattern, proxy)
		} else {
			chi.RegisterMethod(override.Method)
			router.Method(override.Method, override.Pattern, proxy)
		}
	}
	for _, prefix := range registry.Groups() {
		if prefix == adminPrefix {
			continue
		}
		if prefix == "/" {
			router.Handle("/*", proxy)
			continue
		}
		router.Handle(prefix, proxy)
		router.Handle(prefix+"/*", proxy)
	}

	router.Route(adminPrefix, func(router chi.Router) {
		router.Use(render.SetContentType(render.ContentTypeJSON))
		router.Use(middleware.NoCache)
		router.Use(guardmiddle.Recoverer)
		router.NotFound(notFoundHandler)
		router.MethodNotAllowed(methodNotAllowedHandler)
		admin(router, source)
	})

	if config.EnableCORS {
		return cors.AllowAll().Handler(router), nil
	}
	return router, nil
}

func notFoundHandler(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("X-Content-Type-Options", "nosniff")
	render.Render(writer, request, api.ErrNotFound) //nolint
}

func methodNotAllowedHandler(writer http.ResponseWriter, request *http.Request) {
	render.Render(writer, request, api.ErrMethodNotAllowed) //nolint
}
