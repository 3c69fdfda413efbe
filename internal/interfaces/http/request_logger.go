package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, estado y latencia.
// Cuando el AuthMiddleware ya cargó la identidad en locals, el registro lleva
// también empresa, usuario y rol, para poder seguir el kardex por operador.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}

		zl := log.With().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		if companyID := GetCompanyID(c); companyID != "" {
			zl = zl.With().
				Str("company_id", companyID).
				Str("user_id", GetUserID(c)).
				Str("role", GetRole(c)).
				Logger()
		}

		zl.Info().
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
