package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// LowStockReport lotes en o bajo el umbral, de menor a mayor cantidad.
type LowStockReport struct {
	Threshold   int64
	GeneratedAt time.Time
	Items       []repository.LowStockRow
}

// LowStockReport usa el umbral override si viene; si no, el setting
// low_stock_default leído por su prefijo numérico (0 si falta o no empieza con dígitos).
func (l *StockLedger) LowStockReport(ctx context.Context, override *int64) (*LowStockReport, error) {
	threshold, err := l.lowStockThreshold(ctx, override)
	if err != nil {
		return nil, err
	}
	rows, err := l.repos.Batches.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return &LowStockReport{
		Threshold:   threshold,
		GeneratedAt: time.Now(),
		Items:       rows,
	}, nil
}

func (l *StockLedger) lowStockThreshold(ctx context.Context, override *int64) (int64, error) {
	if override != nil {
		return *override, nil
	}
	value, ok, err := l.repos.Settings.Get(ctx, entity.SettingLowStockDefault)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return leadingInt(value), nil
}

// leadingInt lee el entero al inicio de s ("12.5" -> 12, "10 unidades" -> 10).
// Sin dígitos iniciales devuelve 0; fuera de rango queda acotado a int64.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}

// ReconciliationReport compara por lote la cantidad actual con la suma de sus
// movimientos. Cantidad − suma = cantidad inicial del lote.
func (l *StockLedger) ReconciliationReport(ctx context.Context) ([]repository.ReconciliationRow, error) {
	return l.repos.Batches.Reconcile(ctx)
}

// LowStockPDFUseCase genera el reporte de stock bajo como PDF.
type LowStockPDFUseCase struct {
	ledger    *StockLedger
	generator LowStockPDFGenerator
}

// NewLowStockPDFUseCase construye el caso de uso.
func NewLowStockPDFUseCase(ledger *StockLedger, generator LowStockPDFGenerator) *LowStockPDFUseCase {
	return &LowStockPDFUseCase{ledger: ledger, generator: generator}
}

// Download devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *LowStockPDFUseCase) Download(ctx context.Context, override *int64) ([]byte, string, error) {
	report, err := uc.ledger.LowStockReport(ctx, override)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateLowStockPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("stock_bajo_%s.pdf", report.GeneratedAt.Format("20060102"))
	return pdf, filename, nil
}
