package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MovementView movimiento enriquecido con número de parte y de lote.
type MovementView struct {
	ID          int64
	CreatedAt   time.Time
	Type        string
	QtyChange   int64
	Reason      string
	PartNumber  string
	BatchNumber *string
}

// StockMovementRepository puerto de solo inserción para el historial de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListRecent(ctx context.Context, limit int) ([]MovementView, error)
	ListByBatch(ctx context.Context, batchID int64) ([]*entity.StockMovement, error)
}
