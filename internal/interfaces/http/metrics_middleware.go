package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestObserver lo implementa *metrics.Collectors.
type requestObserver interface {
	InFlight(delta float64)
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics registra conteo y latencia por ruta plantilla. /metrics no se mide.
func Metrics(obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		obs.InFlight(1)
		defer obs.InFlight(-1)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
