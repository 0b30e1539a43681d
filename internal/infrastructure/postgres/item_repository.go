package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// FindOrCreate usa ON CONFLICT para que dos ingresos concurrentes del mismo
// número de parte terminen en la misma fila.
func (r *ItemRepo) FindOrCreate(ctx context.Context, partNumber string) (*entity.Item, error) {
	query := `
		INSERT INTO items (part_number) VALUES ($1)
		ON CONFLICT (part_number) DO UPDATE SET part_number = EXCLUDED.part_number
		RETURNING id, part_number, created_at`
	var it entity.Item
	if err := r.q.QueryRow(ctx, query, partNumber).Scan(&it.ID, &it.PartNumber, &it.CreatedAt); err != nil {
		return nil, mapError("find or create item", err)
	}
	return &it, nil
}

func (r *ItemRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.Item, error) {
	query := `SELECT id, part_number, created_at FROM items WHERE part_number = $1`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, partNumber).Scan(&it.ID, &it.PartNumber, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get item", err)
	}
	return &it, nil
}
