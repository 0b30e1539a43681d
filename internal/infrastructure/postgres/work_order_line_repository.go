package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.WorkOrderLineRepository = (*WorkOrderLineRepo)(nil)

// WorkOrderLineRepo implementación de WorkOrderLineRepository sobre PostgreSQL.
type WorkOrderLineRepo struct {
	q Querier
}

// NewWorkOrderLineRepository construye el adaptador de líneas de orden.
func NewWorkOrderLineRepository(q Querier) *WorkOrderLineRepo {
	return &WorkOrderLineRepo{q: q}
}

func (r *WorkOrderLineRepo) Create(ctx context.Context, line *entity.WorkOrderLine) error {
	query := `
		INSERT INTO workorder_lines (workorder_id, item_id, batch_id, qty_requested, qty_issued, note)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		line.WorkOrderID, line.ItemID, line.BatchID, line.QtyRequested, line.Note,
	).Scan(&line.ID)
	return mapError("create workorder line", err)
}

// GetForUpdate bloquea la línea para serializar despachos y devoluciones concurrentes.
func (r *WorkOrderLineRepo) GetForUpdate(ctx context.Context, workOrderID, lineID int64) (*entity.WorkOrderLine, error) {
	query := `
		SELECT id, workorder_id, item_id, batch_id, qty_requested, qty_issued, note
		FROM workorder_lines
		WHERE id = $1 AND workorder_id = $2
		FOR UPDATE`
	var l entity.WorkOrderLine
	err := r.q.QueryRow(ctx, query, lineID, workOrderID).Scan(
		&l.ID, &l.WorkOrderID, &l.ItemID, &l.BatchID, &l.QtyRequested, &l.QtyIssued, &l.Note,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get workorder line for update", err)
	}
	return &l, nil
}

func (r *WorkOrderLineRepo) AddIssued(ctx context.Context, lineID, delta int64) (bool, error) {
	query := `
		UPDATE workorder_lines SET qty_issued = qty_issued + $2
		WHERE id = $1 AND qty_issued + $2 >= 0`
	tag, err := r.q.Exec(ctx, query, lineID, delta)
	if err != nil {
		return false, mapError("update qty_issued", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WorkOrderLineRepo) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]repository.WorkOrderLineView, error) {
	query := `
		SELECT l.id, l.qty_requested, l.qty_issued, l.note,
			i.id, i.part_number, b.id, b.batch_number, b.quantity
		FROM workorder_lines l
		JOIN items i ON i.id = l.item_id
		JOIN batches b ON b.id = l.batch_id
		WHERE l.workorder_id = $1
		ORDER BY l.id DESC`
	rows, err := r.q.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, mapError("list workorder lines", err)
	}
	defer rows.Close()

	var out []repository.WorkOrderLineView
	for rows.Next() {
		var v repository.WorkOrderLineView
		if err := rows.Scan(
			&v.LineID, &v.QtyRequested, &v.QtyIssued, &v.Note,
			&v.ItemID, &v.PartNumber, &v.BatchID, &v.BatchNumber, &v.OnHand,
		); err != nil {
			return nil, mapError("scan workorder line", err)
		}
		out = append(out, v)
	}
	return out, mapError("list workorder lines", rows.Err())
}

func (r *WorkOrderLineRepo) Delete(ctx context.Context, workOrderID, lineID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM workorder_lines WHERE id = $1 AND workorder_id = $2`, lineID, workOrderID)
	if err != nil {
		return false, mapError("delete workorder line", err)
	}
	return tag.RowsAffected() > 0, nil
}
