package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RestockUC    *inventory.RestockUseCase
	ExpirationUC *inventory.ExpirationUseCase
	ForecastUC   *inventory.ForecastUseCase
	OptimizerUC  *inventory.OptimizerUseCase
	ReportUC     *inventory.ReportUseCase
	Metrics      nethttp.Handler // opcional: /metrics solo se registra si no es nil
	Logger       *logger.Logger
}

// Router registra las rutas de la API. Sin autenticación: el motor corre detrás del back office.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	h := NewInventoryHandler(deps.RestockUC, deps.ExpirationUC, deps.ForecastUC, deps.OptimizerUC, deps.ReportUC, deps.Logger)

	// Lotes por tienda; ?category= opcional
	stores := api.Group("/stores/:store_id")
	stores.Get("/restock-alerts", h.RestockAlerts)
	stores.Get("/expiration-alerts", h.ExpirationAlerts)
	stores.Get("/report", h.Report)
	stores.Get("/report.pdf", h.ReportPDF)

	// Consultas por ítem (agente de pedidos)
	items := api.Group("/items/:item_id")
	items.Get("/forecast", h.Forecast)
	items.Get("/optimization", h.Optimization)
}
