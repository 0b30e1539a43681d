package entity

import "time"

// Estados de una orden de trabajo. No hay máquina de estados: cualquier valor
// del conjunto se puede asignar directamente.
const (
	WorkOrderStatusDraft  = "draft"
	WorkOrderStatusIssued = "issued"
	WorkOrderStatusClosed = "closed"
)

// IsValidWorkOrderStatus indica si s pertenece al conjunto de estados.
func IsValidWorkOrderStatus(s string) bool {
	switch s {
	case WorkOrderStatusDraft, WorkOrderStatusIssued, WorkOrderStatusClosed:
		return true
	}
	return false
}

// WorkOrder unidad de trabajo que solicita, consume y devuelve stock por medio de sus líneas.
type WorkOrder struct {
	ID          int64
	Code        string
	Status      string
	RequestedBy *string
	CreatedAt   time.Time
}

// WorkOrderLine línea de una orden: referencia un Item y un Batch.
// QtyIssued acumula despachos menos devoluciones y nunca baja de cero.
type WorkOrderLine struct {
	ID           int64
	WorkOrderID  int64
	ItemID       int64
	BatchID      int64
	QtyRequested int64
	QtyIssued    int64
	Note         *string
}
