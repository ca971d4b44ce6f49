package middleware

import (
	"net/http"
	"time"

	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// AccessLog writes one line per request. Mount it after chi's RequestID so
// the line carries the request id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		ev := logger.C(r.Context()).Info()
		if rw.statusCode >= http.StatusInternalServerError {
			ev = logger.C(r.Context()).Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", rw.statusCode).
			Int("bytes", rw.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
}
