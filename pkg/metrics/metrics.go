// Package metrics exposes prometheus metrics of vettracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vettracker"

type Metrics struct {
	gatherer prometheus.Gatherer

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	NotificationsSent *prometheus.CounterVec
}

// New registers metrics to reg.
//
// Registering twice to the same registry panics.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notifications persisted and published, by kind.",
		}, []string{"kind"}),
	}
}

// Middleware records requests.
//
// Routes are echo's route paths ("/api/pets/:id"), not raw paths, to bound cardinality.
// Unrouted requests are recorded as "unknown".
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()
		err := next(c)

		route := c.Path()
		if route == "" {
			route = "unknown"
		}
		code := c.Response().Status
		if err != nil {
			if herr, ok := err.(*echo.HTTPError); ok {
				code = herr.Code
			} else if !c.Response().Committed {
				code = http.StatusInternalServerError
			}
		}

		method := c.Request().Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(begin).Seconds())
		return err
	}
}

// Handler serves metrics in the prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
