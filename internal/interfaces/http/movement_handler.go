package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// MovementHandler historial global de movimientos.
type MovementHandler struct {
	ledger *inventory.StockLedger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.StockLedger) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// List godoc
// @Summary      Movimientos recientes
// @Description  Los 200 más recientes con número de parte y lote (lote nulo si fue eliminado).
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=[]dto.MovementListItem}
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListMovements(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementListItem, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementListItem{
			ID: m.ID, CreatedAt: m.CreatedAt, MovementType: m.Type, QtyChange: m.QtyChange,
			Reason: m.Reason, PartNumber: m.PartNumber, BatchNumber: m.BatchNumber,
		})
	}
	return respond(c, out)
}
