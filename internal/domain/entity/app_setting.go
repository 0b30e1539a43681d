package entity

// SettingLowStockDefault umbral por defecto del reporte de stock bajo.
const SettingLowStockDefault = "low_stock_default"

// AppSetting par clave/valor de configuración de la aplicación (solo upsert).
type AppSetting struct {
	Key   string
	Value string
}
