package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeAdjust = "ADJUST" // ajuste manual, ingreso sobre lote existente o fijación absoluta
	MovementTypeIssue  = "ISSUE"  // despacho a una orden de trabajo
	MovementTypeReturn = "RETURN" // devolución desde una orden de trabajo
)

// StockMovement registro de auditoría inmutable de un cambio de cantidad.
// Nunca se actualiza ni se elimina.
type StockMovement struct {
	ID            int64
	TransactionID string
	ItemID        int64
	BatchID       *int64 // nil cuando el lote fue eliminado
	Type          string
	QtyChange     int64 // con signo
	Reason        string
	CreatedAt     time.Time
}
