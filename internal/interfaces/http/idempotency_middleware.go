package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// IdempotencyHeader cabecera opcional para deduplicar reintentos.
const IdempotencyHeader = "Idempotency-Key"

// IdempotencyStore reserva claves de petición.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rechaza con 409 DUPLICATE_REQUEST una petición cuya Idempotency-Key
// ya fue usada en el mismo método y ruta. Sin cabecera, sin store o en métodos
// de solo lectura no hace nada.
// Si el store falla la petición sigue (se registra un warning). Una respuesta 4xx o 5xx
// libera la clave: el ledger revierte toda operación fallida.
func Idempotency(store IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(IdempotencyHeader))
		if key == "" || store == nil || isSafeMethod(c.Method()) {
			return c.Next()
		}
		scoped := c.Method() + " " + c.Path() + " " + key

		reserved, err := store.Reserve(c.Context(), scoped)
		if err != nil {
			log.Warn().Err(err).Str("key", scoped).Msg("idempotencia no disponible")
			return c.Next()
		}
		if !reserved {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "DUPLICATE_REQUEST",
				Message: "petición duplicada para " + IdempotencyHeader,
			})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if relErr := store.Release(c.Context(), scoped); relErr != nil {
				log.Warn().Err(relErr).Str("key", scoped).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return err
	}
}

func isSafeMethod(method string) bool {
	return method == fiber.MethodGet || method == fiber.MethodHead || method == fiber.MethodOptions
}
