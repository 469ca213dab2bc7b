package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/deepgram/mockllm/internal/metrics"
)

// RequestLogging attaches a request scoped logger carrying a request id,
// writes one access log line per request and records request metrics.
func RequestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			route := routeName(r)

			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request handled")

			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(route).Observe(duration.Seconds())
		})(next)
		h = hlog.RemoteAddrHandler("client_ip")(h)
		h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
		return hlog.NewHandler(logger)(h)
	}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
