package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	"github.com/moira-alert/mutguard/clock"
	"github.com/moira-alert/mutguard/cmd"
	"github.com/moira-alert/mutguard/logging"
	"github.com/moira-alert/mutguard/policy"
	"github.com/moira-alert/mutguard/policy/env"
	"github.com/moira-alert/mutguard/policy/expression"
	"github.com/moira-alert/mutguard/policy/redis"
	"github.com/moira-alert/mutguard/policy/remote"
	"github.com/moira-alert/mutguard/policy/schedule"
	"github.com/moira-alert/mutguard/policy/static"
	"github.com/moira-alert/mutguard/route"
)

type config struct {
	Redis     cmd.RedisConfig     `yaml:"redis"`
	Logger    cmd.LoggerConfig    `yaml:"log"`
	Gateway   gatewayConfig       `yaml:"gateway"`
	Policy    policyConfig        `yaml:"policy"`
	Overrides overridesConfig     `yaml:"overrides"`
	Telemetry cmd.TelemetryConfig `yaml:"telemetry"`
}

type gatewayConfig struct {
	// Gateway local network address.
	Listen string `yaml:"listen"`
	// Upstream service url, every allowed request is proxied there.
	Upstream string `yaml:"upstream"`
	// If true, CORS for cross-domain requests will be enabled.
	EnableCORS bool `yaml:"enable_cors"`
	// Route group of health and state endpoints, mutations are always allowed there.
	AdminPrefix string `yaml:"admin_prefix"`
	// Count of cached route resolutions, 0 disables cache.
	RouteCacheSize int `yaml:"route_cache_size"`
}

type policyConfig struct {
	// Comma-separated list of env, static, redis, remote, schedule, expression.
	// Mutations are blocked if any of listed sources blocks them.
	Type string `yaml:"type"`
	// One of propagate, fail_open, fail_closed. Applied to every source listed in type.
	OnError    string                 `yaml:"on_error"`
	Env        envPolicyConfig        `yaml:"env"`
	Static     staticPolicyConfig     `yaml:"static"`
	Remote     cmd.RemoteConfig       `yaml:"remote"`
	Schedule   cmd.ScheduleConfig     `yaml:"schedule"`
	Expression expressionPolicyConfig `yaml:"expression"`
}

type envPolicyConfig struct {
	// Mutations are blocked while variable equals "true".
	Variable string `yaml:"variable"`
}

type staticPolicyConfig struct {
	// Initial state, can be changed with PUT to state endpoint.
	Blocked bool `yaml:"blocked"`
}

type expressionPolicyConfig struct {
	// govaluate expression, e.g. BLOCK_MUTATIONS == 'true' && APP_ENV != 'development'
	Expression string `yaml:"expression"`
	// IANA time zone of hour, minute and weekday variables.
	Location string `yaml:"location"`
}

type overridesConfig struct {
	Handlers []handlerOverrideConfig `yaml:"handlers"`
	Groups   []groupOverrideConfig   `yaml:"groups"`
}

type handlerOverrideConfig struct {
	// HTTP method, '*' or empty for any method.
	Method string `yaml:"method"`
	// chi route pattern, e.g. /api/trigger/{triggerId}/throttling
	Pattern string `yaml:"pattern"`
	// false cancels group override for this handler. Default is true.
	Allow *bool `yaml:"allow"`
}

type groupOverrideConfig struct {
	Prefix string `yaml:"prefix"`
	Allow  *bool  `yaml:"allow"`
}

func (config *gatewayConfig) getSettings() (*api.Config, error) {
	upstream, err := url.Parse(config.Upstream)
	if err != nil {
		return nil, fmt.Errorf("can't parse upstream url '%s': %w", config.Upstream, err)
	}
	if upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("upstream url '%s' must contain scheme and host", config.Upstream)
	}

	return &api.Config{
		EnableCORS:        config.EnableCORS,
		Listen:            config.Listen,
		Upstream:          upstream,
		AdminPrefix:       config.AdminPrefix,
		ResolverCacheSize: config.RouteCacheSize,
	}, nil
}

func (config *overridesConfig) getRegistry() (*route.Registry, error) {
	registry := route.NewRegistry()
	for _, handler := range config.Handlers {
		if handler.Pattern == "" {
			return nil, fmt.Errorf("handler override pattern can not be empty")
		}
		registry.SetHandler(handler.Method, handler.Pattern, isAllowed(handler.Allow))
	}
	for _, group := range config.Groups {
		if group.Prefix == "" {
			return nil, fmt.Errorf("group override prefix can not be empty")
		}
		registry.SetGroup(group.Prefix, isAllowed(group.Allow))
	}
	return registry, nil
}

func isAllowed(allow *bool) bool {
	return allow == nil || *allow
}

// getPolicySource builds sources listed in policy type. Error policy is applied to each source,
// so a failing source never hides the answer of the others. Returned closers must be closed on shutdown.
func (config *config) getPolicySource(logger logging.Logger) (mutguard.PolicySource, []io.Closer, error) {
	sources := make([]mutguard.PolicySource, 0)
	closers := make([]io.Closer, 0)
	var writer mutguard.PolicyStateWriter

	for _, policyType := range strings.Split(config.Policy.Type, ",") {
		source, err := config.newPolicySource(strings.TrimSpace(policyType), logger)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		if closer, ok := source.(io.Closer); ok {
			closers = append(closers, closer)
		}
		if stateWriter, ok := source.(mutguard.PolicyStateWriter); ok && writer == nil {
			writer = stateWriter
		}

		source, err = policy.WithErrorPolicy(source, policy.ErrorPolicy(config.Policy.OnError), logger)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		sources = append(sources, source)
	}

	combined := sources[0]
	if len(sources) > 1 {
		combined = policy.Any(sources...)
	}
	return policy.WithStateWriter(combined, writer), closers, nil
}

func (config *config) newPolicySource(policyType string, logger logging.Logger) (mutguard.PolicySource, error) {
	switch policyType {
	case "env", "":
		if config.Policy.Env.Variable == "" {
			return env.NewDefaultSource(), nil
		}
		return env.NewSource(config.Policy.Env.Variable), nil
	case "static":
		return static.NewSource(config.Policy.Static.Blocked), nil
	case "redis":
		return redis.NewSource(config.Redis.GetSettings(), logger)
	case "remote":
		return remote.NewSource(config.Policy.Remote.GetSettings(), logger)
	case "schedule":
		return schedule.NewSource(config.Policy.Schedule.GetSettings(), clock.NewSystemClock())
	case "expression":
		return expression.NewSource(config.Policy.Expression.Expression, config.Policy.Expression.Location, clock.NewSystemClock())
	default:
		return nil, fmt.Errorf("unknown policy type '%s'", policyType)
	}
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		closer.Close() //nolint
	}
}

func getDefault() config {
	return config{
		Redis: cmd.RedisConfig{
			Addrs:       "localhost:6379",
			DialTimeout: "500ms",
			MaxRetries:  3,
		},
		Logger: cmd.LoggerConfig{
			LogFile:         "stdout",
			LogLevel:        "info",
			LogPrettyFormat: false,
		},
		Gateway: gatewayConfig{
			Listen:         ":8080",
			Upstream:       "http://localhost:8081",
			EnableCORS:     false,
			AdminPrefix:    "/mutguard",
			RouteCacheSize: route.DefaultResolverCacheSize,
		},
		Policy: policyConfig{
			Type:    "env",
			OnError: string(policy.ErrorPolicyPropagate),
			Env: envPolicyConfig{
				Variable: env.DefaultVariable,
			},
			Remote: cmd.RemoteConfig{
				Timeout:              "1s",
				MaxRetries:           2,
				RetryInitialInterval: "100ms",
				RetryMaxInterval:     "1s",
			},
		},
		Telemetry: cmd.TelemetryConfig{
			Listen: ":8091",
			Graphite: cmd.GraphiteConfig{
				Enabled:      false,
				RuntimeStats: false,
				URI:          "localhost:2003",
				Prefix:       "DevOps.Mutguard",
				Interval:     "60s",
			},
			Prometheus: cmd.PrometheusConfig{
				Enabled:     true,
				MetricsPath: "/metrics",
			},
			Pprof: cmd.ProfilerConfig{Enabled: false},
		},
	}
}
