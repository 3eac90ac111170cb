package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"oms-backend/prometheus"
)

// MetricsMiddleware records the request counter and latency histogram
// for every request, labeled by method, route template and status.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		method := c.Request().Method
		path := c.Path() // route template, not the raw URL, to bound cardinality
		status := strconv.Itoa(c.Response().Status)

		prometheus.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
		prometheus.HttpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

		return err
	}
}
