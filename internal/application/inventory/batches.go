package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// IntakeResult identifica el item y el lote afectados por un ingreso.
type IntakeResult struct {
	ItemID  int64
	BatchID int64
}

// IntakeStock busca o crea el item por número de parte y hace upsert aditivo del lote:
// si (item, batch_number) ya existe suma quantity, si no lo inserta con esa cantidad.
// La suma sobre un lote existente queda registrada como movimiento ADJUST; la cantidad
// con la que nace un lote es su cantidad inicial y no genera movimiento.
func (l *StockLedger) IntakeStock(ctx context.Context, partNumber, batchNumber string, quantity int64) (*IntakeResult, error) {
	partNumber = strings.TrimSpace(partNumber)
	batchNumber = strings.TrimSpace(batchNumber)
	if partNumber == "" || batchNumber == "" {
		return nil, fmt.Errorf("%w: part_number y batch_number son requeridos", domain.ErrInvalidInput)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad de ingreso no puede ser negativa", domain.ErrInvalidInput)
	}

	txID := l.newTxID()
	var out IntakeResult
	err := l.tx.Run(ctx, func(r Repos) error {
		item, err := r.Items.FindOrCreate(ctx, partNumber)
		if err != nil {
			return err
		}
		existing, err := r.Batches.FindByPartAndBatch(ctx, partNumber, batchNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := checkAddition(existing.ID, existing.Quantity, quantity); err != nil {
				return err
			}
		}
		batch, inserted, err := r.Batches.UpsertAdd(ctx, item.ID, batchNumber, quantity, entity.BatchConditionNew)
		if err != nil {
			return err
		}
		if !inserted && quantity > 0 {
			if err := record(ctx, r, txID, batch, entity.MovementTypeAdjust, quantity, reasonIntake); err != nil {
				return err
			}
		}
		out = IntakeResult{ItemID: item.ID, BatchID: batch.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetBatchQuantity sobrescribe la cantidad del lote con un valor absoluto.
// La diferencia contra la cantidad previa se registra como ADJUST para que el
// historial siga cuadrando con el stock.
func (l *StockLedger) SetBatchQuantity(ctx context.Context, batchID, quantity int64) (*entity.Batch, error) {
	if batchID <= 0 {
		return nil, fmt.Errorf("%w: batch_id inválido", domain.ErrInvalidInput)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}

	txID := l.newTxID()
	var out *entity.Batch
	err := l.tx.Run(ctx, func(r Repos) error {
		batch, err := r.Batches.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: lote %d", domain.ErrNotFound, batchID)
		}
		delta := quantity - batch.Quantity
		if delta != 0 {
			if err := r.Batches.SetQuantity(ctx, batchID, quantity); err != nil {
				return err
			}
			if err := record(ctx, r, txID, batch, entity.MovementTypeAdjust, delta, reasonSetQuantity); err != nil {
				return err
			}
		}
		batch.Quantity = quantity
		out = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustBatchQuantity suma qtyChange (con signo) al lote y registra el movimiento ADJUST.
// Falla con ErrInsufficientStock si el stock quedaría negativo.
func (l *StockLedger) AdjustBatchQuantity(ctx context.Context, batchID, qtyChange int64, reason string) (*entity.Batch, error) {
	if batchID <= 0 {
		return nil, fmt.Errorf("%w: batch_id inválido", domain.ErrInvalidInput)
	}
	if qtyChange == 0 {
		return nil, fmt.Errorf("%w: qty_change debe ser distinto de cero", domain.ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = reasonManualAdjust
	}

	txID := l.newTxID()
	var out *entity.Batch
	err := l.tx.Run(ctx, func(r Repos) error {
		batch, err := applyDelta(ctx, r, batchID, qtyChange)
		if err != nil {
			return err
		}
		if err := record(ctx, r, txID, batch, entity.MovementTypeAdjust, qtyChange, reason); err != nil {
			return err
		}
		out = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyDelta aplica el cambio condicional y distingue lote inexistente de stock insuficiente.
// Un incremento bloquea antes la fila para validar que no desborde.
func applyDelta(ctx context.Context, r Repos, batchID, delta int64) (*entity.Batch, error) {
	if delta > 0 {
		current, err := r.Batches.GetForUpdate(ctx, batchID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("%w: lote %d", domain.ErrNotFound, batchID)
		}
		if err := checkAddition(batchID, current.Quantity, delta); err != nil {
			return nil, err
		}
	}
	batch, err := r.Batches.ApplyDelta(ctx, batchID, delta)
	if err != nil {
		return nil, err
	}
	if batch != nil {
		return batch, nil
	}
	current, err := r.Batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: lote %d", domain.ErrNotFound, batchID)
	}
	return nil, fmt.Errorf("%w: lote %d tiene %d, cambio solicitado %d",
		domain.ErrInsufficientStock, batchID, current.Quantity, delta)
}

// DeleteBatch elimina el lote sin auditoría. Los movimientos previos se conservan
// con batch_id nulo; un lote referenciado por líneas de orden devuelve ErrConflict.
func (l *StockLedger) DeleteBatch(ctx context.Context, batchID int64) error {
	if batchID <= 0 {
		return fmt.Errorf("%w: batch_id inválido", domain.ErrInvalidInput)
	}
	ok, err := l.repos.Batches.Delete(ctx, batchID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: lote %d", domain.ErrNotFound, batchID)
	}
	return nil
}

// ListStock lista items con sus lotes.
func (l *StockLedger) ListStock(ctx context.Context) ([]repository.StockRow, error) {
	return l.repos.Batches.ListStock(ctx)
}

// ListBatchMovements devuelve el historial de un lote, del más antiguo al más reciente.
func (l *StockLedger) ListBatchMovements(ctx context.Context, batchID int64) ([]*entity.StockMovement, error) {
	if batchID <= 0 {
		return nil, fmt.Errorf("%w: batch_id inválido", domain.ErrInvalidInput)
	}
	batch, err := l.repos.Batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: lote %d", domain.ErrNotFound, batchID)
	}
	return l.repos.Movements.ListByBatch(ctx, batchID)
}

// ListMovements devuelve los movimientos más recientes (tope fijo).
func (l *StockLedger) ListMovements(ctx context.Context) ([]repository.MovementView, error) {
	return l.repos.Movements.ListRecent(ctx, movementListLimit)
}
