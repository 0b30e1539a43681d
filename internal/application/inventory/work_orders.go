package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CreateWorkOrderInput datos para crear una orden de trabajo.
// Code vacío = se genera "WO-" + 5 dígitos. Status fuera del conjunto se convierte en draft.
type CreateWorkOrderInput struct {
	Code        string
	Status      string
	RequestedBy *string
}

// CreateWorkOrder crea la orden. Un código repetido devuelve domain.ErrConflict.
func (l *StockLedger) CreateWorkOrder(ctx context.Context, in CreateWorkOrderInput) (*entity.WorkOrder, error) {
	status := in.Status
	if !entity.IsValidWorkOrderStatus(status) {
		status = entity.WorkOrderStatusDraft
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		generated, err := domaininv.NextWorkOrderCode(ctx, l.repos.WorkOrders.CodeExists, l.codeAttempts, l.intn)
		if err != nil {
			return nil, err
		}
		code = generated
	}
	wo := &entity.WorkOrder{
		Code:        code,
		Status:      status,
		RequestedBy: in.RequestedBy,
	}
	if err := l.repos.WorkOrders.Create(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// ListWorkOrders lista las órdenes más recientes; q filtra por código, estado o solicitante.
func (l *StockLedger) ListWorkOrders(ctx context.Context, q string) ([]*entity.WorkOrder, error) {
	return l.repos.WorkOrders.List(ctx, strings.TrimSpace(q), workOrderListLimit)
}

// SetWorkOrderStatus asigna el estado directamente. A diferencia de la creación,
// aquí un estado inválido es un error de validación.
func (l *StockLedger) SetWorkOrderStatus(ctx context.Context, workOrderID int64, status string) error {
	if workOrderID <= 0 || !entity.IsValidWorkOrderStatus(status) {
		return fmt.Errorf("%w: id o estado inválido", domain.ErrInvalidInput)
	}
	ok, err := l.repos.WorkOrders.UpdateStatus(ctx, workOrderID, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: orden %d", domain.ErrNotFound, workOrderID)
	}
	return nil
}

// DeleteWorkOrder elimina la orden y sus líneas.
func (l *StockLedger) DeleteWorkOrder(ctx context.Context, workOrderID int64) error {
	if workOrderID <= 0 {
		return fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	ok, err := l.repos.WorkOrders.Delete(ctx, workOrderID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: orden %d", domain.ErrNotFound, workOrderID)
	}
	return nil
}

// AddLineInput datos de una línea nueva. Se indica ItemID+BatchID o PartNumber+BatchNumber.
type AddLineInput struct {
	PartNumber  string
	BatchNumber string
	ItemID      int64
	BatchID     int64
	Qty         int64
	Note        *string
}

// AddLine agrega una línea a la orden. No verifica disponibilidad: una línea
// puede solicitarse antes de que exista el stock; el control ocurre al despachar.
func (l *StockLedger) AddLine(ctx context.Context, workOrderID int64, in AddLineInput) (*entity.WorkOrderLine, error) {
	if workOrderID <= 0 {
		return nil, fmt.Errorf("%w: id de orden inválido", domain.ErrInvalidInput)
	}
	if in.Qty <= 0 {
		return nil, fmt.Errorf("%w: qty debe ser mayor que cero", domain.ErrInvalidInput)
	}

	wo, err := l.repos.WorkOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, fmt.Errorf("%w: orden %d", domain.ErrNotFound, workOrderID)
	}

	batch, err := l.resolveLineBatch(ctx, in)
	if err != nil {
		return nil, err
	}

	line := &entity.WorkOrderLine{
		WorkOrderID:  workOrderID,
		ItemID:       batch.ItemID,
		BatchID:      batch.ID,
		QtyRequested: in.Qty,
		Note:         in.Note,
	}
	if err := l.repos.Lines.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (l *StockLedger) resolveLineBatch(ctx context.Context, in AddLineInput) (*entity.Batch, error) {
	if in.ItemID > 0 && in.BatchID > 0 {
		batch, err := l.repos.Batches.GetByID(ctx, in.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil || batch.ItemID != in.ItemID {
			return nil, fmt.Errorf("%w: lote %d del item %d", domain.ErrNotFound, in.BatchID, in.ItemID)
		}
		return batch, nil
	}

	partNumber := strings.TrimSpace(in.PartNumber)
	batchNumber := strings.TrimSpace(in.BatchNumber)
	if partNumber == "" || batchNumber == "" {
		return nil, fmt.Errorf("%w: se requiere item_id y batch_id o part_number y batch_number", domain.ErrInvalidInput)
	}
	batch, err := l.repos.Batches.FindByPartAndBatch(ctx, partNumber, batchNumber)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: item/lote %s/%s", domain.ErrNotFound, partNumber, batchNumber)
	}
	return batch, nil
}

// ListLines lista las líneas de una orden, la más reciente primero.
func (l *StockLedger) ListLines(ctx context.Context, workOrderID int64) ([]repository.WorkOrderLineView, error) {
	if workOrderID <= 0 {
		return nil, fmt.Errorf("%w: id de orden inválido", domain.ErrInvalidInput)
	}
	return l.repos.Lines.ListByWorkOrder(ctx, workOrderID)
}

// DeleteLine elimina la línea si pertenece a la orden.
func (l *StockLedger) DeleteLine(ctx context.Context, workOrderID, lineID int64) error {
	if workOrderID <= 0 || lineID <= 0 {
		return fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	ok, err := l.repos.Lines.Delete(ctx, workOrderID, lineID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: línea %d de la orden %d", domain.ErrNotFound, lineID, workOrderID)
	}
	return nil
}
