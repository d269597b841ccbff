package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// Mensaje único para cualquier falla de sesión: el cliente no distingue ausente, expirado o alterado.
const sessionErrorMessage = "sesión inválida o expirada"

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: ErrUnavailable viene unido a la causa de pgx y se evalúa primero.
var errorMappings = []errorMapping{
	{domain.ErrUnavailable, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrInvalidDateRange, fiber.StatusBadRequest, "INVALID_DATE_RANGE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrMissingToken, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrMalformedToken, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrExpiredToken, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// mapError traduce un error de la aplicación a estado HTTP y cuerpo de error.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		switch m.status {
		case fiber.StatusServiceUnavailable:
			return m.status, dto.ErrorResponse{Code: m.code, Message: "la base de datos no está disponible, intente más tarde", Details: err.Error()}
		case fiber.StatusUnauthorized:
			if errors.Is(err, domain.ErrUnauthorized) {
				return m.status, dto.ErrorResponse{Code: m.code, Message: "credenciales inválidas"}
			}
			return m.status, dto.ErrorResponse{Code: m.code, Message: sessionErrorMessage}
		}
		return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor", Details: err.Error()}
}

// writeError responde con el error mapeado. Los 5xx se registran como error; el resto a nivel debug.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Int("status", status).Msg("error procesando la petición")
	} else {
		log.Debug().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Int("status", status).Msg("petición rechazada")
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler reemplaza el handler por defecto de Fiber para que los errores no capturados
// (404 de ruta, panics recuperados, errores de middlewares) respeten el mismo formato.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "ROUTE_NOT_FOUND"
			case fiber.StatusTooManyRequests:
				code = "TOO_MANY_REQUESTS"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
