// Package metricsvc exposes Prometheus metrics of the HTTP API and the agenda store.
package metricsvc

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/onestop/core/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onestop_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onestop_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "onestop_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	storeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onestop_store_events_total",
		Help: "Total number of agenda store change events.",
	}, []string{"event"})

	entriesNotifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onestop_entries_notified_total",
		Help: "Total number of calendar entries included in a notification.",
	})
)

// Middleware records request metrics.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil && !c.Response().Committed {
				c.Error(err) // commit the response so the status is known
			}

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			method := c.Request().Method
			status := c.Response().Status
			statusCode := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(method, route).Inc()
			httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(time.Since(start).Seconds())
			if status >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(method, route, statusCode).Inc()
			}
			return nil
		}
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStore counts the change events of st. The returned func stops the observation.
func ObserveStore(st *store.Store) (stop func()) {
	return st.Subscribe(func(evt store.Event) {
		storeEventsTotal.WithLabelValues(evt.Kind.String()).Inc()
		if evt.Kind == store.EntriesNotified {
			entriesNotifiedTotal.Add(float64(evt.Count))
		}
	})
}
