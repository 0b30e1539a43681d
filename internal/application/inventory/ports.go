package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Repos agrupa los repositorios del ledger. Dentro de TxRunner.Run todos están
// atados a la misma transacción.
type Repos struct {
	Items      repository.ItemRepository
	Batches    repository.BatchRepository
	WorkOrders repository.WorkOrderRepository
	Lines      repository.WorkOrderLineRepository
	Movements  repository.StockMovementRepository
	Settings   repository.SettingsRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo: cantidad de lote y movimientos nunca quedan desalineados.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}

// LowStockPDFGenerator genera la representación en PDF del reporte de stock bajo.
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, report *LowStockReport) ([]byte, error)
}
