package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// InventoryHandler expone el motor de pronóstico y alertas.
type InventoryHandler struct {
	restock    *inventory.RestockUseCase
	expiration *inventory.ExpirationUseCase
	forecast   *inventory.ForecastUseCase
	optimizer  *inventory.OptimizerUseCase
	report     *inventory.ReportUseCase
	log        *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	restock *inventory.RestockUseCase,
	expiration *inventory.ExpirationUseCase,
	forecast *inventory.ForecastUseCase,
	optimizer *inventory.OptimizerUseCase,
	report *inventory.ReportUseCase,
	log *logger.Logger,
) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{
		restock:    restock,
		expiration: expiration,
		forecast:   forecast,
		optimizer:  optimizer,
		report:     report,
		log:        log,
	}
}

// RestockAlerts godoc
// @Summary      Alertas de reposición de una tienda
// @Description  Evalúa cada ítem del snapshot. Los ítems que no se pudieron evaluar
//
//	se listan en failures; el lote no se aborta.
//
// @Tags         alerts
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  dto.RestockAlertBatch
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/restock-alerts [get]
func (h *InventoryHandler) RestockAlerts(c *fiber.Ctx) error {
	out, err := h.restock.GenerateRestockAlerts(c.UserContext(), c.Params("store_id"), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ExpirationAlerts godoc
// @Summary      Alertas de caducidad de una tienda
// @Tags         alerts
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  dto.ExpirationAlertBatch
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/expiration-alerts [get]
func (h *InventoryHandler) ExpirationAlerts(c *fiber.Ctx) error {
	out, err := h.expiration.CheckExpiration(c.UserContext(), c.Params("store_id"), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de inventario para el dashboard
// @Tags         reports
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  dto.InventoryReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	out, err := h.report.GetInventoryReport(c.UserContext(), c.Params("store_id"), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/report.pdf [get]
func (h *InventoryHandler) ReportPDF(c *fiber.Ctx) error {
	storeID := c.Params("store_id")
	b, err := h.report.ReportPDF(c.UserContext(), storeID, c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario-`+storeID+`.pdf"`)
	return c.Send(b)
}

// Forecast godoc
// @Summary      Pronóstico de consumo de un ítem
// @Tags         items
// @Produce      json
// @Param        item_id        path   string  true   "ID del ítem"
// @Param        method         query  string  false  "moving_average | weighted_average | linear_regression | seasonal"
// @Param        history_days   query  int     false  "Días de historial (default ENGINE_HISTORY_DAYS)"
// @Param        forecast_days  query  int     false  "Horizonte en días (default ENGINE_FORECAST_DAYS)"
// @Success      200  {object}  dto.ForecastDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/items/{item_id}/forecast [get]
func (h *InventoryHandler) Forecast(c *fiber.Ctx) error {
	historyDays, err := queryInt(c, "history_days")
	if err != nil {
		return badQuery(c, "history_days")
	}
	forecastDays, err := queryInt(c, "forecast_days")
	if err != nil {
		return badQuery(c, "forecast_days")
	}
	out, err := h.forecast.ForecastItem(c.UserContext(), c.Params("item_id"), c.Query("method"), historyDays, forecastDays)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Optimization godoc
// @Summary      Niveles de stock óptimos de un ítem
// @Description  Compara los niveles actuales con los recomendados por stock de seguridad
//
//	(nivel de servicio configurado) y ciclo de reposición.
//
// @Tags         items
// @Produce      json
// @Param        item_id        path   string  true   "ID del ítem"
// @Param        analysis_days  query  int     false  "Ventana de análisis (default ENGINE_HISTORY_DAYS)"
// @Success      200  {object}  dto.OptimizationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/items/{item_id}/optimization [get]
func (h *InventoryHandler) Optimization(c *fiber.Ctx) error {
	days, err := queryInt(c, "analysis_days")
	if err != nil {
		return badQuery(c, "analysis_days")
	}
	out, err := h.optimizer.OptimizeStockLevels(c.UserContext(), c.Params("item_id"), days)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(inventory.ToOptimizationDTO(*out))
}

// fail traduce el error de dominio al status HTTP y al código estable.
func (h *InventoryHandler) fail(c *fiber.Ctx, err error) error {
	code := inventory.ErrorCode(err)
	status := statusFor(code)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("petición fallida")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func statusFor(code string) int {
	switch code {
	case inventory.CodeValidation:
		return fiber.StatusBadRequest
	case inventory.CodeNotFound:
		return fiber.StatusNotFound
	case inventory.CodeInsufficientData, inventory.CodeInsufficientHistory, inventory.CodeInvalidThreshold:
		return fiber.StatusUnprocessableEntity
	case inventory.CodeUpstreamUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

var errBadQuery = errors.New("parámetro inválido")

// queryInt devuelve 0 si el parámetro no viene (el caso de uso aplica el default).
func queryInt(c *fiber.Ctx, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadQuery
	}
	return n, nil
}

func badQuery(c *fiber.Ctx, key string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: inventory.CodeValidation, Message: key + " debe ser un entero"})
}
