package handler

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/render"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	"github.com/moira-alert/mutguard/api/middleware"
	"github.com/moira-alert/mutguard/logging"
)

// OutcomeHeader tells upstream how mutations guard let the request through.
const OutcomeHeader = "X-Mutguard-Outcome"

func newUpstreamProxy(upstream *url.URL, logger logging.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	director := proxy.Director
	proxy.Director = func(request *http.Request) {
		director(request)
		if decision, ok := middleware.GetDecision(request); ok {
			request.Header.Set(OutcomeHeader, string(decision.Outcome))
		}
	}
	proxy.ErrorHandler = func(writer http.ResponseWriter, request *http.Request, err error) {
		requestLogger := middleware.GetLoggerEntry(request)
		if requestLogger == nil {
			requestLogger = logger
		}
		requestLogger.Error().
			Error(err).
			String(mutguard.LogFieldNameRemoteURL, upstream.String()).
			Msg("Upstream request failed")
		render.Render(writer, request, api.ErrorUpstreamUnavailable(err)) //nolint
	}
	return proxy
}
