package middleware

import (
	"net/http"
	"path"
	"strings"
)

// CleanPath resolves dot segments and repeated slashes in request path,
// so route resolution and upstream both see the same canonical path.
// Trailing slash is kept.
func CleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		cleaned := cleanURLPath(request.URL.Path)
		if cleaned != request.URL.Path {
			cleanedURL := *request.URL
			cleanedURL.Path = cleaned
			cleanedURL.RawPath = ""

			request = request.WithContext(request.Context())
			request.URL = &cleanedURL
		}
		next.ServeHTTP(writer, request)
	})
}

func cleanURLPath(requestPath string) string {
	if requestPath == "" {
		return "/"
	}
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}

	cleaned := path.Clean(requestPath)
	if strings.HasSuffix(requestPath, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}
