package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// ReportHandler reportes de stock bajo (JSON y PDF) y conciliación.
type ReportHandler struct {
	ledger *inventory.StockLedger
	pdf    *inventory.LowStockPDFUseCase
}

// NewReportHandler construye el handler. pdf puede ser nil (ruta PDF deshabilitada).
func NewReportHandler(ledger *inventory.StockLedger, pdf *inventory.LowStockPDFUseCase) *ReportHandler {
	return &ReportHandler{ledger: ledger, pdf: pdf}
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Description  Lotes con cantidad <= umbral, de menor a mayor. Sin threshold se usa el setting low_stock_default.
// @Tags         reports
// @Produce      json
// @Param        threshold  query  int  false  "Umbral explícito (entero >= 0)"
// @Success      200  {object}  dto.DataResponse{data=dto.LowStockResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/lowstock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	override, err := thresholdParam(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.ledger.LowStockReport(c.Context(), override)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.LowStockItem, 0, len(report.Items))
	for _, it := range report.Items {
		items = append(items, dto.LowStockItem{
			BatchID: it.BatchID, PartNumber: it.PartNumber, BatchNumber: it.BatchNumber,
			Quantity: it.Quantity, Location: it.Location, Site: it.Site, Bin: it.Bin,
		})
	}
	return respond(c, dto.LowStockResponse{Threshold: report.Threshold, GeneratedAt: report.GeneratedAt, Items: items})
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        threshold  query  int  false  "Umbral explícito (entero >= 0)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/lowstock/pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	override, err := thresholdParam(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.pdf.Download(c.Context(), override)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// Reconciliation godoc
// @Summary      Conciliación de lotes contra movimientos
// @Description  Por lote: cantidad actual, suma de movimientos y cantidad inicial implícita.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=[]dto.ReconciliationItem}
// @Router       /api/reports/reconciliation [get]
func (h *ReportHandler) Reconciliation(c *fiber.Ctx) error {
	rows, err := h.ledger.ReconciliationReport(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReconciliationItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ReconciliationItem{
			BatchID: r.BatchID, PartNumber: r.PartNumber, BatchNumber: r.BatchNumber,
			Quantity: r.Quantity, MovementTotal: r.MovementTotal, MovementCount: r.MovementCount,
			InitialQuantity: decimal.NewFromInt(r.Quantity).Sub(r.MovementTotal),
		})
	}
	return respond(c, out)
}

func thresholdParam(c *fiber.Ctx) (*int64, error) {
	raw := c.Query("threshold")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: threshold debe ser un entero >= 0", domain.ErrInvalidInput)
	}
	return &n, nil
}
