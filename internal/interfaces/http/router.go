package http

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// Pinger verifica la conexión a la base (p. ej. *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.StockLedger
	LowStockPDF *inventory.LowStockPDFUseCase // nil = sin ruta PDF
	Idempotency IdempotencyStore              // nil = sin deduplicación
	DB          Pinger                        // nil = /health no consulta la base
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.DB))
	app.Get("/routes", routesHandler(app))

	api := app.Group("/api", Idempotency(deps.Idempotency))

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Ledger)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Intake)
	items.Put("/:batchId", itemHandler.SetQuantity)
	items.Delete("/:batchId", itemHandler.Delete)
	items.Patch("/:batchId/adjust", itemHandler.Adjust)
	items.Get("/:batchId/movements", itemHandler.Movements)

	workorders := api.Group("/workorders")
	woHandler := NewWorkOrderHandler(deps.Ledger)
	workorders.Get("/", woHandler.List)
	workorders.Post("/", woHandler.Create)
	workorders.Delete("/:id", woHandler.Delete)
	workorders.Put("/:id/status", woHandler.SetStatus)
	workorders.Get("/:id/lines", woHandler.ListLines)
	workorders.Post("/:id/lines", woHandler.AddLine)
	workorders.Delete("/:id/lines/:lineId", woHandler.DeleteLine)
	workorders.Post("/:id/lines/:lineId/issue", woHandler.Issue)
	workorders.Post("/:id/lines/:lineId/return", woHandler.Return)

	settingsHandler := NewSettingsHandler(deps.Ledger)
	api.Get("/settings", settingsHandler.Get)
	api.Put("/settings", settingsHandler.Save)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Ledger, deps.LowStockPDF)
	reports.Get("/lowstock", reportHandler.LowStock)
	if deps.LowStockPDF != nil {
		reports.Get("/lowstock/pdf", reportHandler.LowStockPDF)
	}
	reports.Get("/reconciliation", reportHandler.Reconciliation)

	api.Get("/movements", NewMovementHandler(deps.Ledger).List)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.DataResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health [get]
func healthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "DB_UNREACHABLE", Message: "base de datos no disponible",
				})
			}
		}
		return respond(c, nil)
	}
}

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// routesHandler godoc
// @Summary      Rutas registradas
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.DataResponse
// @Router       /routes [get]
func routesHandler(app *fiber.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var out []routeInfo
		for _, r := range app.GetRoutes(true) {
			if r.Method == fiber.MethodHead {
				continue
			}
			out = append(out, routeInfo{Method: r.Method, Path: r.Path})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Path != out[j].Path {
				return out[i].Path < out[j].Path
			}
			return out[i].Method < out[j].Method
		})
		return respond(c, out)
	}
}
