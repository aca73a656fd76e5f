package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/go-chi/render"

	"github.com/moira-alert/mutguard/api"
)

// Recoverer is a middleware that recovers from panics, logs the panic (and a
// backtrace), and returns a HTTP 500 (Internal Server Error) status if
// possible.
func Recoverer(next http.Handler) http.Handler {
	fn := func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				if logger := GetLoggerEntry(request); logger != nil {
					logger.Error().
						String("panic", fmt.Sprintf("%+v", rvr)).
						String("stack", string(debug.Stack())).
						Msg("Recovered from panic")
				} else {
					fmt.Fprintf(os.Stderr, "Panic: %+v\n", rvr)
					debug.PrintStack()
				}

				render.Render(writer, request, api.ErrorInternalServer(fmt.Errorf("internal Server Error"))) //nolint
			}
		}()

		next.ServeHTTP(writer, request)
	}

	return http.HandlerFunc(fn)
}
