package middleware

import (
	"time"

	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics records count and latency per matched route pattern.
func RequestMetrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if asFiberError(err, &fe) {
			status = fe.Code
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		m.ObserveRequest(route, c.Method(), status, time.Since(start))
		return err
	}
}
