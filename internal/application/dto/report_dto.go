package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingResponse par clave/valor.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LowStockItem lote en o bajo el umbral.
type LowStockItem struct {
	BatchID     int64  `json:"batch_id"`
	PartNumber  string `json:"part_number"`
	BatchNumber string `json:"batch_number"`
	Quantity    int64  `json:"quantity"`
	Location    string `json:"location"`
	Site        string `json:"site"`
	Bin         string `json:"bin"`
}

// LowStockResponse reporte de stock bajo.
type LowStockResponse struct {
	Threshold   int64          `json:"threshold"`
	GeneratedAt time.Time      `json:"generated_at"`
	Items       []LowStockItem `json:"items"`
}

// ReconciliationItem cantidad del lote frente a la suma de sus movimientos.
// initial_quantity = quantity - movement_total.
type ReconciliationItem struct {
	BatchID         int64           `json:"batch_id"`
	PartNumber      string          `json:"part_number"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        int64           `json:"quantity"`
	MovementTotal   decimal.Decimal `json:"movement_total"`
	MovementCount   int64           `json:"movement_count"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
}
