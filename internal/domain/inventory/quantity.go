package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
	minQuantity = decimal.NewFromInt(math.MinInt64)
)

// WholeQuantity convierte una cantidad recibida en la API a unidades enteras.
// Rechaza fracciones y valores fuera de int64.
func WholeQuantity(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: la cantidad %s no es entera", domain.ErrInvalidInput, d.String())
	}
	if d.GreaterThan(maxQuantity) || d.LessThan(minQuantity) {
		return 0, fmt.Errorf("%w: la cantidad %s está fuera de rango", domain.ErrInvalidInput, d.String())
	}
	return d.IntPart(), nil
}
