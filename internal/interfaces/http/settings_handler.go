package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// SettingsHandler expone la configuración clave/valor.
type SettingsHandler struct {
	ledger *inventory.StockLedger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(ledger *inventory.StockLedger) *SettingsHandler {
	return &SettingsHandler{ledger: ledger}
}

// Get godoc
// @Summary      Listar configuración
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=[]dto.SettingResponse}
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	list, err := h.ledger.GetSettings(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SettingResponse{Key: s.Key, Value: s.Value})
	}
	return respond(c, out)
}

// Save godoc
// @Summary      Guardar configuración
// @Description  Objeto JSON plano {clave: valor}; cada par se guarda como texto en una sola transacción.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "ej. {\"low_stock_default\": 10}"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	values := map[string]any{}
	if err := c.BodyParser(&values); err != nil {
		return invalidBody(c)
	}
	if err := h.ledger.SaveSettings(c.Context(), values); err != nil {
		return writeError(c, err)
	}
	return respond(c, nil)
}
