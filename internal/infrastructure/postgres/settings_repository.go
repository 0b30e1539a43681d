package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo tabla app_settings (clave/valor).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador de configuración.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, mapError("get setting", err)
	}
	return value, true, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := r.q.Exec(ctx, query, key, value)
	return mapError("set setting", err)
}

func (r *SettingsRepo) List(ctx context.Context) ([]entity.AppSetting, error) {
	rows, err := r.q.Query(ctx, `SELECT key, value FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, mapError("list settings", err)
	}
	defer rows.Close()

	var out []entity.AppSetting
	for rows.Next() {
		var s entity.AppSetting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, mapError("scan setting", err)
		}
		out = append(out, s)
	}
	return out, mapError("list settings", rows.Err())
}
