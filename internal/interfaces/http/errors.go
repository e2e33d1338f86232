package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation   = "VALIDATION"
	CodeInvalidState = "INVALID_STATE"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidBody  = "INVALID_BODY"
	CodeInternal     = "INTERNAL"
)

// statusOf traduce un error de dominio a código HTTP + código de la API.
// Validación y estado inválido son errores del cliente (400).
func statusOf(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return fiber.StatusBadRequest, CodeValidation
	case domain.ErrInvalidState:
		return fiber.StatusBadRequest, CodeInvalidState
	case domain.ErrNotFound:
		return fiber.StatusNotFound, CodeNotFound
	case domain.ErrConflict:
		return fiber.StatusConflict, CodeConflict
	}
	return fiber.StatusInternalServerError, CodeInternal
}

// writeError responde el error en el formato común. Los errores no tipados se registran
// y se devuelven como 500 sin detalles internos.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "internal server error"})
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) && len(de.Fields) > 0 {
		resp.Details = de.Fields
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler manejador global de Fiber: rutas inexistentes, cuerpos demasiado grandes, panics recuperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
				code = CodeInvalidBody
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("%s must be a positive integer", name).With("field", name)
	}
	return id, nil
}
