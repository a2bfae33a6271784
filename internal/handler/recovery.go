package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "picsum_browser",
	Name:      "http_panics_total",
	Help:      "Number of panics recovered while serving http requests.",
})

// Recovery is a handler for handling panics, it responds like any other internal server error
func Recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				httpPanicsTotal.Inc()

				ctx := r.Context()
				traceID, spanID := tracing.TraceInfo(ctx)
				log.Errorw("panic handling request",
					"request-id", GetReqID(ctx),
					"trace-id", traceID,
					"span-id", spanID,
					"panic", err,
					"stacktrace", string(debug.Stack()),
				)

				Handler(func(w http.ResponseWriter, r *http.Request) *Error {
					return InternalServerError()
				}).ServeHTTP(w, r)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
