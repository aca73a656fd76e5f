package mutguard

const (
	LogFieldNameContext       = "mutguard.context"
	LogFieldNameHTTPMethod    = "mutguard.http.method"
	LogFieldNameRoutePattern  = "mutguard.route.pattern"
	LogFieldNameOverride      = "mutguard.override"
	LogFieldNameOutcome       = "mutguard.outcome"
	LogFieldNamePolicySource  = "mutguard.policy.source"
	LogFieldNamePolicyActor   = "mutguard.policy.actor"
	LogFieldNamePolicyBlocked = "mutguard.policy.blocked"
	LogFieldNameElapsedTimeMs = "mutguard.elapsed_time_ms"
	LogFieldNameRemoteURL     = "mutguard.remote.url"
	LogFieldNameRemoteAttempt = "mutguard.remote.attempt"
)
