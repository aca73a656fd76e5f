package middleware

import (
	"context"
	"net/http"

	"github.com/moira-alert/mutguard"
)

type contextKey string

func (key contextKey) String() string {
	return "api context key " + string(key)
}

const anonymousUser = "anonymous"

var (
	decisionKey contextKey = "decision"
	loginKey    contextKey = "login"
)

// UserContext get x-webauth-user header and sets it in request context, if header is empty sets empty string
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userLogin := request.Header.Get("x-webauth-user")
		ctx := context.WithValue(request.Context(), loginKey, userLogin)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// GetLogin gets user login string from request context, which was sets in UserContext middleware
func GetLogin(request *http.Request) string {
	if login, ok := request.Context().Value(loginKey).(string); ok && login != "" {
		return login
	}
	return anonymousUser
}

// WithDecision sets to request context the decision made by MutationsGuard
func WithDecision(request *http.Request, decision mutguard.Decision) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), decisionKey, decision))
}

// GetDecision gets decision from request context, which was sets in MutationsGuard middleware
func GetDecision(request *http.Request) (mutguard.Decision, bool) {
	decision, ok := request.Context().Value(decisionKey).(mutguard.Decision)
	return decision, ok
}
