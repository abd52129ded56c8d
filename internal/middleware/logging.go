package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/vyrodovalexey/avaweb/internal/observability"
	"github.com/vyrodovalexey/avaweb/internal/util"
)

// Logging returns a middleware that logs one line per HTTP request.
func Logging(logger observability.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r = r.WithContext(util.ContextWithStartTime(r.Context(), start))

			rw := util.NewStatusCapturingResponseWriter(w)
			next.ServeHTTP(rw, r)

			//nolint:contextcheck // the request context carries the request ID
			logger.WithContext(r.Context()).Info("http request",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("query", r.URL.RawQuery),
				observability.Int("status", rw.StatusCode),
				observability.Int("size", rw.Size),
				observability.Duration("duration", time.Since(start)),
				observability.String("client_ip", clientIP(r)),
				observability.String("user_agent", r.UserAgent()),
			)
		})
	}
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are not
// trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
