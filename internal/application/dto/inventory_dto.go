package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRequest body para POST /api/items. quantity ausente = 0.
type IntakeRequest struct {
	PartNumber  string          `json:"part_number"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// IntakeResponse item y lote afectados por el ingreso.
type IntakeResponse struct {
	ItemID  int64 `json:"item_id"`
	BatchID int64 `json:"batch_id"`
}

// SetQuantityRequest body para PUT /api/items/:batchId.
type SetQuantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

// AdjustRequest body para PATCH /api/items/:batchId/adjust. qty_change con signo.
type AdjustRequest struct {
	QtyChange *decimal.Decimal `json:"qty_change"`
	Reason    string           `json:"reason,omitempty"`
}

// BatchResponse estado de un lote.
type BatchResponse struct {
	ID          int64  `json:"id"`
	ItemID      int64  `json:"item_id"`
	BatchNumber string `json:"batch_number"`
	Quantity    int64  `json:"quantity"`
	Condition   string `json:"condition"`
	Location    string `json:"location,omitempty"`
	Site        string `json:"site,omitempty"`
	Bin         string `json:"bin,omitempty"`
}

// StockRowResponse fila de GET /api/items; un item sin lotes trae batch_id nulo.
type StockRowResponse struct {
	ItemID      int64   `json:"item_id"`
	PartNumber  string  `json:"part_number"`
	BatchID     *int64  `json:"batch_id"`
	BatchNumber *string `json:"batch_number"`
	Quantity    *int64  `json:"quantity"`
}

// MovementResponse movimiento del historial de un lote.
type MovementResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ItemID        int64     `json:"item_id"`
	BatchID       *int64    `json:"batch_id"`
	MovementType  string    `json:"movement_type"`
	QtyChange     int64     `json:"qty_change"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListItem fila de GET /api/movements.
type MovementListItem struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	MovementType string    `json:"movement_type"`
	QtyChange    int64     `json:"qty_change"`
	Reason       string    `json:"reason"`
	PartNumber   string    `json:"part_number"`
	BatchNumber  *string   `json:"batch_number"`
}
