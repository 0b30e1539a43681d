package entity

import "time"

// BatchConditionNew condición asignada a los lotes creados por ingreso de stock.
const BatchConditionNew = "NEW"

// Batch representa un lote contable de un Item con su propia cantidad y ubicación.
// Quantity nunca es negativa.
type Batch struct {
	ID          int64
	ItemID      int64
	BatchNumber string
	Quantity    int64
	Condition   string
	Location    string
	Site        string
	Bin         string
	CreatedAt   time.Time
}
