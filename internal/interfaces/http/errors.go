package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// writeError traduce un error del ledger a status HTTP + dto.ErrorResponse.
// Los errores no clasificados se registran y se responden como 500 sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrOverReturn):
		return fiber.StatusConflict, "OVER_RETURN"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable, "TRANSIENT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pathID lee un id de ruta: solo dígitos y mayor que cero.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, errInvalidID(name)
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID(name)
	}
	return id, nil
}

func errInvalidID(name string) error {
	return fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, name)
}

func respond(c *fiber.Ctx, data any) error {
	return c.JSON(dto.DataResponse{OK: true, Data: data})
}
