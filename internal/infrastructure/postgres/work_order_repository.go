package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación de WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador de órdenes de trabajo.
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create inserta la orden. UNIQUE(code) resuelve la carrera entre generadores concurrentes.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	query := `
		INSERT INTO workorders (code, status, requested_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, wo.Code, wo.Status, wo.RequestedBy).Scan(&wo.ID, &wo.CreatedAt)
	return mapError("create workorder", err)
}

func (r *WorkOrderRepo) GetByID(ctx context.Context, id int64) (*entity.WorkOrder, error) {
	query := `SELECT id, code, status, requested_by, created_at FROM workorders WHERE id = $1`
	var wo entity.WorkOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&wo.ID, &wo.Code, &wo.Status, &wo.RequestedBy, &wo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get workorder", err)
	}
	return &wo, nil
}

func (r *WorkOrderRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workorders WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, mapError("check workorder code", err)
	}
	return exists, nil
}

func (r *WorkOrderRepo) List(ctx context.Context, q string, limit int) ([]*entity.WorkOrder, error) {
	query := `
		SELECT id, code, status, requested_by, created_at
		FROM workorders
		WHERE $1::text = ''
			OR code ILIKE '%' || $1::text || '%'
			OR status ILIKE '%' || $1::text || '%'
			OR requested_by ILIKE '%' || $1::text || '%'
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, q, limit)
	if err != nil {
		return nil, mapError("list workorders", err)
	}
	defer rows.Close()

	var out []*entity.WorkOrder
	for rows.Next() {
		var wo entity.WorkOrder
		if err := rows.Scan(&wo.ID, &wo.Code, &wo.Status, &wo.RequestedBy, &wo.CreatedAt); err != nil {
			return nil, mapError("scan workorder", err)
		}
		out = append(out, &wo)
	}
	return out, mapError("list workorders", rows.Err())
}

func (r *WorkOrderRepo) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE workorders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, mapError("update workorder status", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *WorkOrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM workorders WHERE id = $1`, id)
	if err != nil {
		return false, mapError("delete workorder", err)
	}
	return tag.RowsAffected() > 0, nil
}
