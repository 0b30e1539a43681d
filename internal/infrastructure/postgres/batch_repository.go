package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, item_id, batch_number, quantity, condition,
	COALESCE(location, ''), COALESCE(site, ''), COALESCE(bin, ''), created_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row, extra ...any) (*entity.Batch, error) {
	var b entity.Batch
	dest := append([]any{
		&b.ID, &b.ItemID, &b.BatchNumber, &b.Quantity, &b.Condition,
		&b.Location, &b.Site, &b.Bin, &b.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return b, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch", `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch for update", `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) FindByPartAndBatch(ctx context.Context, partNumber, batchNumber string) (*entity.Batch, error) {
	query := `
		SELECT b.id, b.item_id, b.batch_number, b.quantity, b.condition,
			COALESCE(b.location, ''), COALESCE(b.site, ''), COALESCE(b.bin, ''), b.created_at
		FROM batches b JOIN items i ON i.id = b.item_id
		WHERE i.part_number = $1 AND b.batch_number = $2`
	return r.getOne(ctx, "find batch", query, partNumber, batchNumber)
}

// UpsertAdd inserta o suma en una sola sentencia; xmax = 0 solo en filas recién insertadas.
func (r *BatchRepo) UpsertAdd(ctx context.Context, itemID int64, batchNumber string, quantity int64, condition string) (*entity.Batch, bool, error) {
	query := `
		INSERT INTO batches (item_id, batch_number, quantity, condition)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, batch_number)
		DO UPDATE SET quantity = batches.quantity + EXCLUDED.quantity
		RETURNING ` + batchColumns + `, (xmax = 0) AS inserted`
	var inserted bool
	b, err := scanBatch(r.q.QueryRow(ctx, query, itemID, batchNumber, quantity, condition), &inserted)
	if err != nil {
		return nil, false, mapError("upsert batch", err)
	}
	return b, inserted, nil
}

func (r *BatchRepo) SetQuantity(ctx context.Context, id, quantity int64) error {
	_, err := r.q.Exec(ctx, `UPDATE batches SET quantity = $2 WHERE id = $1`, id, quantity)
	return mapError("set batch quantity", err)
}

// ApplyDelta es el decremento/incremento condicional: nunca deja quantity < 0.
func (r *BatchRepo) ApplyDelta(ctx context.Context, id, delta int64) (*entity.Batch, error) {
	query := `
		UPDATE batches SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + batchColumns
	return r.getOne(ctx, "apply batch delta", query, id, delta)
}

func (r *BatchRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return false, mapError("delete batch", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BatchRepo) ListStock(ctx context.Context) ([]repository.StockRow, error) {
	query := `
		SELECT i.id, i.part_number, b.id, b.batch_number, b.quantity
		FROM items i
		LEFT JOIN batches b ON b.item_id = i.id
		ORDER BY i.part_number, b.batch_number`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("list stock", err)
	}
	defer rows.Close()

	var out []repository.StockRow
	for rows.Next() {
		var s repository.StockRow
		if err := rows.Scan(&s.ItemID, &s.PartNumber, &s.BatchID, &s.BatchNumber, &s.Quantity); err != nil {
			return nil, mapError("scan stock", err)
		}
		out = append(out, s)
	}
	return out, mapError("list stock", rows.Err())
}

func (r *BatchRepo) ListLowStock(ctx context.Context, threshold int64) ([]repository.LowStockRow, error) {
	query := `
		SELECT b.id, i.part_number, b.batch_number, b.quantity,
			COALESCE(b.location, ''), COALESCE(b.site, ''), COALESCE(b.bin, '')
		FROM batches b JOIN items i ON i.id = b.item_id
		WHERE b.quantity <= $1
		ORDER BY b.quantity, i.part_number, b.batch_number`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, mapError("list low stock", err)
	}
	defer rows.Close()

	var out []repository.LowStockRow
	for rows.Next() {
		var s repository.LowStockRow
		if err := rows.Scan(&s.BatchID, &s.PartNumber, &s.BatchNumber, &s.Quantity, &s.Location, &s.Site, &s.Bin); err != nil {
			return nil, mapError("scan low stock", err)
		}
		out = append(out, s)
	}
	return out, mapError("list low stock", rows.Err())
}

// Reconcile suma qty_change por lote. SUM(bigint) es NUMERIC y se escanea como decimal.
func (r *BatchRepo) Reconcile(ctx context.Context) ([]repository.ReconciliationRow, error) {
	query := `
		SELECT b.id, i.part_number, b.batch_number, b.quantity,
			COALESCE(SUM(m.qty_change), 0), COUNT(m.id)
		FROM batches b
		JOIN items i ON i.id = b.item_id
		LEFT JOIN stock_movements m ON m.batch_id = b.id
		GROUP BY b.id, i.part_number
		ORDER BY b.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("reconcile", err)
	}
	defer rows.Close()

	var out []repository.ReconciliationRow
	for rows.Next() {
		var s repository.ReconciliationRow
		if err := rows.Scan(&s.BatchID, &s.PartNumber, &s.BatchNumber, &s.Quantity, &s.MovementTotal, &s.MovementCount); err != nil {
			return nil, mapError("scan reconcile", err)
		}
		out = append(out, s)
	}
	return out, mapError("reconcile", rows.Err())
}
