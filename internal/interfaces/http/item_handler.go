package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// ItemHandler maneja items, lotes y su historial de movimientos.
type ItemHandler struct {
	ledger *inventory.StockLedger
}

// NewItemHandler construye el handler.
func NewItemHandler(ledger *inventory.StockLedger) *ItemHandler {
	return &ItemHandler{ledger: ledger}
}

// List godoc
// @Summary      Listar items con sus lotes
// @Tags         items
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=[]dto.StockRowResponse}
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	rows, err := h.ledger.ListStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockRowResponse{
			ItemID: r.ItemID, PartNumber: r.PartNumber,
			BatchID: r.BatchID, BatchNumber: r.BatchNumber, Quantity: r.Quantity,
		})
	}
	return respond(c, out)
}

// Intake godoc
// @Summary      Ingresar stock
// @Description  Crea el item si no existe y suma la cantidad al lote (part_number, batch_number).
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntakeRequest  true  "part_number, batch_number, quantity (entero >= 0)"
// @Success      200   {object}  dto.DataResponse{data=dto.IntakeResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Intake(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	qty, err := domaininv.WholeQuantity(in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.IntakeStock(c.Context(), in.PartNumber, in.BatchNumber, qty)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, dto.IntakeResponse{ItemID: res.ItemID, BatchID: res.BatchID})
}

// SetQuantity godoc
// @Summary      Fijar la cantidad de un lote
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        batchId  path  int                     true  "ID del lote"
// @Param        body     body  dto.SetQuantityRequest  true  "quantity (entero >= 0)"
// @Success      200      {object}  dto.DataResponse{data=dto.BatchResponse}
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/items/{batchId} [put]
func (h *ItemHandler) SetQuantity(c *fiber.Ctx) error {
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Quantity == nil {
		return writeError(c, fmt.Errorf("%w: quantity es requerido", domain.ErrInvalidInput))
	}
	qty, err := domaininv.WholeQuantity(*in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.ledger.SetBatchQuantity(c.Context(), batchID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, toBatchResponse(b))
}

// Adjust godoc
// @Summary      Ajustar la cantidad de un lote
// @Description  Suma qty_change (con signo) y registra un movimiento ADJUST. Nunca deja stock negativo.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        batchId  path  int                true  "ID del lote"
// @Param        body     body  dto.AdjustRequest  true  "qty_change (entero distinto de 0), reason"
// @Success      200      {object}  dto.DataResponse{data=dto.BatchResponse}
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/items/{batchId}/adjust [patch]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.QtyChange == nil {
		return writeError(c, fmt.Errorf("%w: qty_change es requerido", domain.ErrInvalidInput))
	}
	change, err := domaininv.WholeQuantity(*in.QtyChange)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.ledger.AdjustBatchQuantity(c.Context(), batchID, change, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, toBatchResponse(b))
}

// Delete godoc
// @Summary      Eliminar un lote
// @Tags         items
// @Produce      json
// @Param        batchId  path  int  true  "ID del lote"
// @Success      200      {object}  dto.DataResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/items/{batchId} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.ledger.DeleteBatch(c.Context(), batchID); err != nil {
		return writeError(c, err)
	}
	return respond(c, nil)
}

// Movements godoc
// @Summary      Historial de movimientos de un lote
// @Tags         items
// @Produce      json
// @Param        batchId  path  int  true  "ID del lote"
// @Success      200      {object}  dto.DataResponse{data=[]dto.MovementResponse}
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/items/{batchId}/movements [get]
func (h *ItemHandler) Movements(c *fiber.Ctx) error {
	batchID, err := pathID(c, "batchId")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.ListBatchMovements(c.Context(), batchID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return respond(c, out)
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID: b.ID, ItemID: b.ItemID, BatchNumber: b.BatchNumber, Quantity: b.Quantity,
		Condition: b.Condition, Location: b.Location, Site: b.Site, Bin: b.Bin,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID: m.ID, TransactionID: m.TransactionID, ItemID: m.ItemID, BatchID: m.BatchID,
		MovementType: m.Type, QtyChange: m.QtyChange, Reason: m.Reason, CreatedAt: m.CreatedAt,
	}
}
