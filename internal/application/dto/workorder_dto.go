package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest body para POST /api/workorders. code vacío = generado.
type CreateWorkOrderRequest struct {
	Code        string  `json:"code,omitempty"`
	Status      string  `json:"status,omitempty"`
	RequestedBy *string `json:"requested_by,omitempty"`
}

// WorkOrderResponse orden de trabajo.
type WorkOrderResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
	RequestedBy *string   `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetStatusRequest body para PUT /api/workorders/:id/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// AddLineRequest body para POST /api/workorders/:id/lines.
// Se indica item_id + batch_id, o part_number + batch_number.
type AddLineRequest struct {
	PartNumber  string          `json:"part_number,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ItemID      int64           `json:"item_id,omitempty"`
	BatchID     int64           `json:"batch_id,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	Note        *string         `json:"note,omitempty"`
}

// AddLineResponse id de la línea creada.
type AddLineResponse struct {
	LineID int64 `json:"line_id"`
}

// LineResponse línea con parte, lote y stock disponible.
type LineResponse struct {
	LineID       int64   `json:"line_id"`
	QtyRequested int64   `json:"qty_requested"`
	QtyIssued    int64   `json:"qty_issued"`
	Note         *string `json:"note"`
	ItemID       int64   `json:"item_id"`
	PartNumber   string  `json:"part_number"`
	BatchID      int64   `json:"batch_id"`
	BatchNumber  string  `json:"batch_number"`
	OnHand       int64   `json:"onhand"`
}

// LineQtyRequest body para issue/return.
type LineQtyRequest struct {
	Qty decimal.Decimal `json:"qty"`
}

// LineBalanceResponse estado tras un despacho o devolución.
type LineBalanceResponse struct {
	LineID    int64 `json:"line_id"`
	BatchID   int64 `json:"batch_id"`
	QtyIssued int64 `json:"qty_issued"`
	OnHand    int64 `json:"onhand"`
}
