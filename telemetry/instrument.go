package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Instrument records request count, latency and in-flight requests per route.
// The "op" label is the echo route pattern, so path parameters do not explode cardinality.
func Instrument(m *Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			op := c.Path()
			if op == "" {
				op = "unmatched"
			}
			start := time.Now()
			m.inFlight.WithLabelValues(op).Inc()
			defer m.inFlight.WithLabelValues(op).Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < 400 {
					status = 500
				}
			}
			class := strconv.Itoa(status/100) + "xx"
			m.requestsTotal.WithLabelValues(op, class).Inc()
			m.requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
