package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para items (partes).
type ItemRepository interface {
	// FindOrCreate devuelve el item con ese número de parte, creándolo si no existe.
	// Debe ser atómico frente a ingresos concurrentes del mismo número de parte.
	FindOrCreate(ctx context.Context, partNumber string) (*entity.Item, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.Item, error)
}
