package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	"github.com/moira-alert/mutguard/logging"
	zerolog "github.com/moira-alert/mutguard/logging/zerolog_adapter"
	"github.com/moira-alert/mutguard/metrics"
	"github.com/moira-alert/mutguard/policy/env"
	"github.com/moira-alert/mutguard/route"
)

// OverrideLookup returns override configured for the route serving request.
type OverrideLookup func(request *http.Request) mutguard.Override

// GuardConfig configures MutationsGuard.
type GuardConfig struct {
	// Source answers whether mutations are blocked. BLOCK_MUTATIONS environment variable is used when nil.
	Source mutguard.PolicySource
	// Lookup finds override of the request route. No request is overridden when nil.
	Lookup OverrideLookup
	// Logger is used when request has no logger entry from RequestLogger.
	Logger  logging.Logger
	Metrics *metrics.GuardMetrics
}

// MutationsGuard returns 403 for mutating requests while policy source blocks mutations.
// Routes with AllowMutations override pass without asking the source.
// Policy source failure results in 500 and is never turned into allow or deny.
func MutationsGuard(config GuardConfig) func(next http.Handler) http.Handler {
	source := config.Source
	if source == nil {
		source = env.NewDefaultSource()
	}
	fallbackLogger := config.Logger
	if fallbackLogger == nil {
		fallbackLogger = zerolog.NewNopLogger()
	}

	return func(next http.Handler) http.Handler {
		fn := func(writer http.ResponseWriter, request *http.Request) {
			override := mutguard.OverrideUnset
			if config.Lookup != nil {
				override = config.Lookup(request)
			}

			logger := GetLoggerEntry(request)
			if logger == nil {
				logger = fallbackLogger
			}

			startTime := time.Now()
			decision, err := mutguard.Decide(request.Context(), override, source, request.Method)
			if override != mutguard.OverrideAllow {
				config.Metrics.UpdatePolicyTime(startTime)
			}
			if err != nil {
				config.Metrics.MarkPolicyFailure()
				logger.Error().
					Error(err).
					String(mutguard.LogFieldNameHTTPMethod, request.Method).
					String(mutguard.LogFieldNameOverride, override.String()).
					Msg("Failed to evaluate mutations policy")
				render.Render(writer, request, api.ErrorInternalServer(err)) //nolint:errcheck
				return
			}

			config.Metrics.MarkOutcome(string(decision.Outcome))
			if !decision.Allowed() {
				logger.Warning().
					String(mutguard.LogFieldNameHTTPMethod, decision.Method).
					String(mutguard.LogFieldNameOutcome, string(decision.Outcome)).
					Msg("Mutation blocked")
				render.Render(writer, request, api.ErrorForbidden(decision.Err().Error())) //nolint:errcheck
				return
			}

			logger.Debug().
				String(mutguard.LogFieldNameHTTPMethod, decision.Method).
				String(mutguard.LogFieldNameOverride, override.String()).
				String(mutguard.LogFieldNameOutcome, string(decision.Outcome)).
				Msg("Request allowed")
			next.ServeHTTP(writer, WithDecision(request, decision))
		}
		return http.HandlerFunc(fn)
	}
}

// BlockMutations is an alias of MutationsGuard.
func BlockMutations(config GuardConfig) func(next http.Handler) http.Handler {
	return MutationsGuard(config)
}

// RegistryOverrideLookup resolves request route pattern with resolver and looks it up in registry.
// Requests not matching any route are looked up by their path, so group prefixes still apply to them.
func RegistryOverrideLookup(registry *route.Registry, resolver *route.Resolver) OverrideLookup {
	return func(request *http.Request) mutguard.Override {
		pattern, found := resolver.Resolve(request.Method, request.URL.Path)
		if !found {
			pattern = request.URL.Path
		}
		if logger := GetLoggerEntry(request); logger != nil {
			logger.String(mutguard.LogFieldNameRoutePattern, pattern)
		}
		return registry.Lookup(request.Method, pattern)
	}
}

// StaticOverrideLookup returns the same override for every request.
// It marks whole router groups when MutationsGuard is mounted inside them.
func StaticOverrideLookup(override mutguard.Override) OverrideLookup {
	return func(*http.Request) mutguard.Override {
		return override
	}
}
