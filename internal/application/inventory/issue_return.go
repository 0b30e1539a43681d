package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// LineBalance estado de la línea y del lote después de un despacho o devolución.
type LineBalance struct {
	LineID    int64
	BatchID   int64
	QtyIssued int64
	OnHand    int64
}

// IssueLine despacha qty del lote de la línea hacia la orden:
// lote -qty, movimiento ISSUE -qty con motivo "WO-{id}", qty_issued +qty. Todo o nada.
func (l *StockLedger) IssueLine(ctx context.Context, workOrderID, lineID, qty int64) (*LineBalance, error) {
	if err := validateLineOp(workOrderID, lineID, qty); err != nil {
		return nil, err
	}

	txID := l.newTxID()
	var out LineBalance
	err := l.tx.Run(ctx, func(r Repos) error {
		line, err := lockLine(ctx, r, workOrderID, lineID)
		if err != nil {
			return err
		}
		// Decremento condicional: nunca deja el lote en negativo aunque haya despachos concurrentes.
		batch, err := applyDelta(ctx, r, line.BatchID, -qty)
		if err != nil {
			return err
		}
		if err := record(ctx, r, txID, batch, entity.MovementTypeIssue, -qty, WorkOrderReason(workOrderID)); err != nil {
			return err
		}
		ok, err := r.Lines.AddIssued(ctx, lineID, qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: línea %d", domain.ErrNotFound, lineID)
		}
		out = LineBalance{LineID: lineID, BatchID: batch.ID, QtyIssued: line.QtyIssued + qty, OnHand: batch.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReturnLine devuelve qty de la orden al lote de la línea:
// qty_issued -qty, lote +qty, movimiento RETURN +qty con motivo "WO-{id}".
// No se puede devolver más de lo despachado (ErrOverReturn).
func (l *StockLedger) ReturnLine(ctx context.Context, workOrderID, lineID, qty int64) (*LineBalance, error) {
	if err := validateLineOp(workOrderID, lineID, qty); err != nil {
		return nil, err
	}

	txID := l.newTxID()
	var out LineBalance
	err := l.tx.Run(ctx, func(r Repos) error {
		line, err := lockLine(ctx, r, workOrderID, lineID)
		if err != nil {
			return err
		}
		if qty > line.QtyIssued {
			return fmt.Errorf("%w: despachado %d, devolución %d", domain.ErrOverReturn, line.QtyIssued, qty)
		}
		ok, err := r.Lines.AddIssued(ctx, lineID, -qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: despachado %d, devolución %d", domain.ErrOverReturn, line.QtyIssued, qty)
		}
		batch, err := applyDelta(ctx, r, line.BatchID, qty)
		if err != nil {
			return err
		}
		if err := record(ctx, r, txID, batch, entity.MovementTypeReturn, qty, WorkOrderReason(workOrderID)); err != nil {
			return err
		}
		out = LineBalance{LineID: lineID, BatchID: batch.ID, QtyIssued: line.QtyIssued - qty, OnHand: batch.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func validateLineOp(workOrderID, lineID, qty int64) error {
	if workOrderID <= 0 || lineID <= 0 {
		return fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: qty debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

func lockLine(ctx context.Context, r Repos, workOrderID, lineID int64) (*entity.WorkOrderLine, error) {
	line, err := r.Lines.GetForUpdate(ctx, workOrderID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: línea %d de la orden %d", domain.ErrNotFound, lineID, workOrderID)
	}
	return line, nil
}
