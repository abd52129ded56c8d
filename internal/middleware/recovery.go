package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// errInternalServerError is the body written after a recovered panic.
const errInternalServerError = `{"error":"internal server error"}`

// Recovery returns a middleware that recovers from panics raised by filters
// or actions. metrics may be nil.
func Recovery(logger observability.Logger, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.WithContext(r.Context()).Error("panic recovered",
						observability.String("path", r.URL.Path),
						observability.String("method", r.Method),
						observability.Any("error", err),
						observability.String("stack", string(debug.Stack())),
					)

					if metrics != nil {
						metrics.RecordPanic()
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = io.WriteString(w, errInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
