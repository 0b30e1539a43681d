// Package scheduler ejecuta tareas periódicas sobre el ledger con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// LowStockReporter es la parte del ledger que usa el watcher.
type LowStockReporter interface {
	LowStockReport(ctx context.Context, override *int64) (*inventory.LowStockReport, error)
}

// LowStockWatcher registra un warning por cada lote en o bajo el umbral configurado.
type LowStockWatcher struct {
	reporter LowStockReporter
	log      zerolog.Logger
	timeout  time.Duration
}

// NewLowStockWatcher construye el watcher. Cada ejecución tiene un tope de timeout.
func NewLowStockWatcher(reporter LowStockReporter, log zerolog.Logger, timeout time.Duration) *LowStockWatcher {
	return &LowStockWatcher{reporter: reporter, log: log, timeout: timeout}
}

// Check consulta el reporte una vez y devuelve cuántos lotes están bajos.
func (w *LowStockWatcher) Check(ctx context.Context) (int, error) {
	report, err := w.reporter.LowStockReport(ctx, nil)
	if err != nil {
		return 0, err
	}
	for _, it := range report.Items {
		w.log.Warn().
			Int64("batch_id", it.BatchID).
			Str("part_number", it.PartNumber).
			Str("batch_number", it.BatchNumber).
			Int64("quantity", it.Quantity).
			Int64("threshold", report.Threshold).
			Msg("stock bajo")
	}
	return len(report.Items), nil
}

// Start programa Check según schedule (sintaxis cron estándar o descriptores "@every 1h").
// El llamador debe detener el cron devuelto.
func (w *LowStockWatcher) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		n, err := w.Check(ctx)
		if err != nil {
			w.log.Error().Err(err).Msg("revisión de stock bajo fallida")
			return
		}
		w.log.Info().Int("lotes", n).Msg("revisión de stock bajo completada")
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: schedule %q inválido: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
