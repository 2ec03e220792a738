package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacts_api_requests_total",
			Help: "Total number of contacts API requests.",
		},
		[]string{"method", "route", "status_code"},
	)

	apiRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contacts_api_request_duration_seconds",
			Help:    "Duration of contacts API requests. Picker routes include the time the user spends on the page.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60},
		},
		[]string{"method", "route"},
	)
)

// MetricsMiddleware records request count and latency per chi route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		apiRequestDurationSeconds.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		apiRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
