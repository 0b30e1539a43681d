package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/spf13/cast"
)

// GetSettings devuelve todos los pares clave/valor ordenados por clave.
func (l *StockLedger) GetSettings(ctx context.Context) ([]entity.AppSetting, error) {
	return l.repos.Settings.List(ctx)
}

// SaveSettings hace upsert de cada par en una sola transacción.
// Los valores escalares se guardan como texto.
func (l *StockLedger) SaveSettings(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no hay datos", domain.ErrInvalidInput)
	}
	keys := make([]string, 0, len(values))
	converted := make(map[string]string, len(values))
	for k, v := range values {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: clave vacía", domain.ErrInvalidInput)
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("%w: valor de %q no es escalar", domain.ErrInvalidInput, k)
		}
		keys = append(keys, k)
		converted[k] = s
	}
	sort.Strings(keys)

	return l.tx.Run(ctx, func(r Repos) error {
		for _, k := range keys {
			if err := r.Settings.Set(ctx, k, converted[k]); err != nil {
				return err
			}
		}
		return nil
	})
}
