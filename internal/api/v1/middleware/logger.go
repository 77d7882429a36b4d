// Package middleware holds the fiber middleware of the API
package middleware

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"

	log "github.com/celestiaorg/verse/internal/logger"
)

// Logger returns a middleware that logs HTTP requests
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue chain
		err := c.Next()

		// Errors returned by handlers are rendered by the app error handler after this
		// middleware, so report the status they will produce
		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		fields := map[string]interface{}{
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
			"method":  c.Method(),
			"path":    c.Path(),
			"handler": c.Route().Name,
		}
		if user := CurrentUser(c); user != nil {
			fields["user_id"] = user.ID.String()
		}
		log.InfoWithFields("Request", fields)

		return err
	}
}
