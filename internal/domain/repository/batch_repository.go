package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRow fila del listado de items con sus lotes (LEFT JOIN: un item sin lotes
// aparece una vez con BatchID nil).
type StockRow struct {
	ItemID      int64
	PartNumber  string
	BatchID     *int64
	BatchNumber *string
	Quantity    *int64
}

// LowStockRow lote cuyo stock está en o bajo el umbral.
type LowStockRow struct {
	BatchID     int64
	PartNumber  string
	BatchNumber string
	Quantity    int64
	Location    string
	Site        string
	Bin         string
}

// ReconciliationRow cantidad actual de un lote frente a la suma de sus movimientos.
type ReconciliationRow struct {
	BatchID       int64
	PartNumber    string
	BatchNumber   string
	Quantity      int64
	MovementTotal decimal.Decimal // SUM(qty_change), NUMERIC en PostgreSQL
	MovementCount int64
}

// BatchRepository define el puerto de persistencia para lotes.
// Las mutaciones de cantidad usan formas condicionales atómicas; nunca leer-y-escribir.
type BatchRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Batch, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error)
	FindByPartAndBatch(ctx context.Context, partNumber, batchNumber string) (*entity.Batch, error)

	// UpsertAdd inserta el lote (item_id, batch_number) o suma quantity al existente.
	// inserted indica si la fila es nueva.
	UpsertAdd(ctx context.Context, itemID int64, batchNumber string, quantity int64, condition string) (batch *entity.Batch, inserted bool, err error)
	SetQuantity(ctx context.Context, id, quantity int64) error
	// ApplyDelta suma delta a la cantidad solo si el resultado es >= 0.
	// Devuelve nil, nil si el lote no existe o la condición no se cumple.
	ApplyDelta(ctx context.Context, id, delta int64) (*entity.Batch, error)
	Delete(ctx context.Context, id int64) (bool, error)

	ListStock(ctx context.Context) ([]StockRow, error)
	ListLowStock(ctx context.Context, threshold int64) ([]LowStockRow, error)
	Reconcile(ctx context.Context) ([]ReconciliationRow, error)
}
