package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/pkg/logger"
)

// HeaderRequestID cabecera de correlación de la petición.
const HeaderRequestID = fiber.HeaderXRequestID

// requestIDKey clave de Locals que usa el middleware requestid.
const requestIDKey = "requestid"

// RequestLogger registra una línea estructurada por petición (método, ruta, status, latencia).
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			// el ErrorHandler escribe la respuesta; así el status registrado es el real
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		reqID, _ := c.Locals(requestIDKey).(string)
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return nil
	}
}
