package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (transaction_id, item_id, batch_id, type, qty_change, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.ItemID, m.BatchID, m.Type, m.QtyChange, m.Reason,
	).Scan(&m.ID, &m.CreatedAt)
	return mapError("create stock movement", err)
}

func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]repository.MovementView, error) {
	query := `
		SELECT m.id, m.created_at, m.type, m.qty_change, m.reason, i.part_number, b.batch_number
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		LEFT JOIN batches b ON b.id = m.batch_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, mapError("list movements", err)
	}
	defer rows.Close()

	var out []repository.MovementView
	for rows.Next() {
		var v repository.MovementView
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.Type, &v.QtyChange, &v.Reason, &v.PartNumber, &v.BatchNumber); err != nil {
			return nil, mapError("scan movement", err)
		}
		out = append(out, v)
	}
	return out, mapError("list movements", rows.Err())
}

func (r *StockMovementRepo) ListByBatch(ctx context.Context, batchID int64) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, transaction_id::text, item_id, batch_id, type, qty_change, reason, created_at
		FROM stock_movements
		WHERE batch_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, mapError("list batch movements", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.BatchID, &m.Type, &m.QtyChange, &m.Reason, &m.CreatedAt); err != nil {
			return nil, mapError("scan batch movement", err)
		}
		out = append(out, &m)
	}
	return out, mapError("list batch movements", rows.Err())
}
