package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// WorkOrderHandler maneja órdenes de trabajo, sus líneas y los despachos/devoluciones.
type WorkOrderHandler struct {
	ledger *inventory.StockLedger
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(ledger *inventory.StockLedger) *WorkOrderHandler {
	return &WorkOrderHandler{ledger: ledger}
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Description  Las 250 más recientes; q filtra por código, estado o solicitante.
// @Tags         workorders
// @Produce      json
// @Param        q    query  string  false  "Filtro de texto"
// @Success      200  {object}  dto.DataResponse{data=[]dto.WorkOrderResponse}
// @Router       /api/workorders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListWorkOrders(c.Context(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.WorkOrderResponse, 0, len(list))
	for _, wo := range list {
		out = append(out, dto.WorkOrderResponse{
			ID: wo.ID, Code: wo.Code, Status: wo.Status, RequestedBy: wo.RequestedBy, CreatedAt: wo.CreatedAt,
		})
	}
	return respond(c, out)
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Description  Sin code se genera "WO-" + 5 dígitos. Un status desconocido se guarda como draft.
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  false  "code, status, requested_by"
// @Success      200   {object}  dto.DataResponse{data=dto.WorkOrderResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workorders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	wo, err := h.ledger.CreateWorkOrder(c.Context(), inventory.CreateWorkOrderInput{
		Code: in.Code, Status: in.Status, RequestedBy: in.RequestedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, dto.WorkOrderResponse{
		ID: wo.ID, Code: wo.Code, Status: wo.Status, RequestedBy: wo.RequestedBy, CreatedAt: wo.CreatedAt,
	})
}

// Delete godoc
// @Summary      Eliminar orden de trabajo (y sus líneas)
// @Tags         workorders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workorders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.ledger.DeleteWorkOrder(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return respond(c, nil)
}

// SetStatus godoc
// @Summary      Cambiar estado de la orden
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID de la orden"
// @Param        body  body  dto.SetStatusRequest  true  "draft | issued | closed"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/status [put]
func (h *WorkOrderHandler) SetStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.ledger.SetWorkOrderStatus(c.Context(), id, in.Status); err != nil {
		return writeError(c, err)
	}
	return respond(c, nil)
}

// ListLines godoc
// @Summary      Listar líneas de la orden
// @Tags         workorders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.DataResponse{data=[]dto.LineResponse}
// @Router       /api/workorders/{id}/lines [get]
func (h *WorkOrderHandler) ListLines(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	lines, err := h.ledger.ListLines(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.LineResponse{
			LineID: l.LineID, QtyRequested: l.QtyRequested, QtyIssued: l.QtyIssued, Note: l.Note,
			ItemID: l.ItemID, PartNumber: l.PartNumber, BatchID: l.BatchID, BatchNumber: l.BatchNumber,
			OnHand: l.OnHand,
		})
	}
	return respond(c, out)
}

// AddLine godoc
// @Summary      Agregar línea a la orden
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID de la orden"
// @Param        body  body  dto.AddLineRequest  true  "item_id + batch_id o part_number + batch_number; qty > 0"
// @Success      200   {object}  dto.DataResponse{data=dto.AddLineResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/lines [post]
func (h *WorkOrderHandler) AddLine(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	qty, err := domaininv.WholeQuantity(in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	line, err := h.ledger.AddLine(c.Context(), id, inventory.AddLineInput{
		PartNumber: in.PartNumber, BatchNumber: in.BatchNumber,
		ItemID: in.ItemID, BatchID: in.BatchID, Qty: qty, Note: in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, dto.AddLineResponse{LineID: line.ID})
}

// DeleteLine godoc
// @Summary      Eliminar línea de la orden
// @Tags         workorders
// @Produce      json
// @Param        id      path  int  true  "ID de la orden"
// @Param        lineId  path  int  true  "ID de la línea"
// @Success      200     {object}  dto.DataResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/lines/{lineId} [delete]
func (h *WorkOrderHandler) DeleteLine(c *fiber.Ctx) error {
	id, lineID, err := lineIDs(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.ledger.DeleteLine(c.Context(), id, lineID); err != nil {
		return writeError(c, err)
	}
	return respond(c, nil)
}

// Issue godoc
// @Summary      Despachar stock a la línea
// @Description  Descuenta qty del lote, suma a qty_issued y registra un movimiento ISSUE. Todo o nada.
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Param        id      path  int                 true  "ID de la orden"
// @Param        lineId  path  int                 true  "ID de la línea"
// @Param        body    body  dto.LineQtyRequest  true  "qty > 0"
// @Success      200     {object}  dto.DataResponse{data=dto.LineBalanceResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/lines/{lineId}/issue [post]
func (h *WorkOrderHandler) Issue(c *fiber.Ctx) error {
	return h.lineOp(c, h.ledger.IssueLine)
}

// Return godoc
// @Summary      Devolver stock de la línea al lote
// @Description  No se puede devolver más de lo despachado (OVER_RETURN).
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Param        id      path  int                 true  "ID de la orden"
// @Param        lineId  path  int                 true  "ID de la línea"
// @Param        body    body  dto.LineQtyRequest  true  "qty > 0"
// @Success      200     {object}  dto.DataResponse{data=dto.LineBalanceResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/lines/{lineId}/return [post]
func (h *WorkOrderHandler) Return(c *fiber.Ctx) error {
	return h.lineOp(c, h.ledger.ReturnLine)
}

type lineOpFunc func(ctx context.Context, workOrderID, lineID, qty int64) (*inventory.LineBalance, error)

func (h *WorkOrderHandler) lineOp(c *fiber.Ctx, op lineOpFunc) error {
	id, lineID, err := lineIDs(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.LineQtyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	qty, err := domaininv.WholeQuantity(in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	bal, err := op(c.Context(), id, lineID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, dto.LineBalanceResponse{
		LineID: bal.LineID, BatchID: bal.BatchID, QtyIssued: bal.QtyIssued, OnHand: bal.OnHand,
	})
}

func lineIDs(c *fiber.Ctx) (int64, int64, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	lineID, err := pathID(c, "lineId")
	if err != nil {
		return 0, 0, err
	}
	return id, lineID, nil
}
