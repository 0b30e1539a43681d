package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// WorkOrderLineView línea de orden enriquecida con parte, lote y stock disponible.
type WorkOrderLineView struct {
	LineID       int64
	QtyRequested int64
	QtyIssued    int64
	Note         *string
	ItemID       int64
	PartNumber   string
	BatchID      int64
	BatchNumber  string
	OnHand       int64
}

// WorkOrderRepository define el puerto de persistencia para órdenes de trabajo.
type WorkOrderRepository interface {
	// Create persiste la orden y completa ID y CreatedAt. Un código repetido
	// devuelve domain.ErrConflict.
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id int64) (*entity.WorkOrder, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// List devuelve las más recientes primero; q filtra por código, estado o solicitante.
	List(ctx context.Context, q string, limit int) ([]*entity.WorkOrder, error)
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// WorkOrderLineRepository define el puerto de persistencia para líneas de orden.
type WorkOrderLineRepository interface {
	Create(ctx context.Context, line *entity.WorkOrderLine) error
	// GetForUpdate obtiene la línea si pertenece a la orden y bloquea la fila.
	GetForUpdate(ctx context.Context, workOrderID, lineID int64) (*entity.WorkOrderLine, error)
	// AddIssued suma delta a qty_issued solo si el resultado es >= 0.
	AddIssued(ctx context.Context, lineID, delta int64) (bool, error)
	ListByWorkOrder(ctx context.Context, workOrderID int64) ([]WorkOrderLineView, error)
	Delete(ctx context.Context, workOrderID, lineID int64) (bool, error)
}
