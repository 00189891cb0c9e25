package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// RestockUseCase genera las alertas de reposición de una tienda.
// Combina clasificación de stock con el pronóstico de consumo de cada ítem.
type RestockUseCase struct {
	repo     repository.InventorySnapshotRepository
	registry repository.AlertRegistry // opcional
	metrics  EngineMetrics
	cfg      EngineConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewRestockUseCase construye el caso de uso de reposición. registry, metrics y log pueden ser nil.
func NewRestockUseCase(
	repo repository.InventorySnapshotRepository,
	registry repository.AlertRegistry,
	metrics EngineMetrics,
	cfg EngineConfig,
	log *logger.Logger,
) *RestockUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RestockUseCase{
		repo:     repo,
		registry: registry,
		metrics:  metrics,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// GenerateRestockAlerts evalúa el snapshot completo de la tienda (category vacío = todas) y devuelve
// las alertas ordenadas por nivel descendente y fecha de quiebre más próxima.
// Los fallos por ítem van en Failures; solo un fallo del snapshot o la cancelación abortan.
func (uc *RestockUseCase) GenerateRestockAlerts(ctx context.Context, storeID, category string) (*dto.RestockAlertBatch, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput)
	}
	started := time.Now()
	defer func() { uc.metrics.ObserveRun(KindRestock, time.Since(started)) }()

	items, err := uc.repo.FetchSnapshot(ctx, storeID, category)
	if err != nil {
		return nil, upstream("fetch_snapshot", err)
	}

	now := uc.now()
	alerts, failures, err := uc.evaluate(ctx, items, now)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RestockAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toRestockAlertDTO(a, markSeen(ctx, uc.registry, uc.log, a.AlertID)))
		uc.metrics.AlertEmitted(KindRestock, a.Level)
	}
	for _, f := range failures {
		uc.metrics.ItemFailed(KindRestock, f.Code)
		uc.log.Warn().Str("store_id", storeID).Str("item_id", f.ItemID).Str("code", f.Code).
			Msg(f.Message)
	}

	uc.log.Info().
		Str("store_id", storeID).
		Int("items", len(items)).
		Int("alerts", len(out)).
		Int("failures", len(failures)).
		Dur("elapsed", time.Since(started)).
		Msg("alertas de reposición generadas")

	return &dto.RestockAlertBatch{
		StoreID:        storeID,
		Category:       category,
		GeneratedAt:    now,
		ItemsEvaluated: len(items),
		Alerts:         out,
		Failures:       failures,
	}, nil
}

// evaluate corre el fan-out sobre un snapshot ya leído. Lo reutiliza el reporte.
func (uc *RestockUseCase) evaluate(ctx context.Context, items []entity.InventoryItem, now time.Time) ([]entity.RestockAlert, []dto.ItemFailure, error) {
	alerts, failures, err := fanOut(ctx, uc.cfg.Workers, items, func(ctx context.Context, item entity.InventoryItem) (*entity.RestockAlert, error) {
		return uc.evaluateItem(ctx, item, now)
	})
	if err != nil {
		return nil, nil, err
	}
	sortRestockAlerts(alerts)
	return alerts, failures, nil
}

func (uc *RestockUseCase) evaluateItem(ctx context.Context, item entity.InventoryItem, now time.Time) (*entity.RestockAlert, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	status := inventory.ClassifyItem(item, uc.cfg.stockRatios())
	if status == entity.StatusSufficient {
		return nil, nil
	}

	since := inventory.Day(now).AddDate(0, 0, -uc.cfg.HistoryDays)
	history, err := uc.repo.FetchHistory(ctx, item.ID, since)
	if err != nil {
		return nil, upstream("fetch_history", err)
	}
	fc, err := inventory.Forecast(item.ID, history,
		uc.cfg.forecastParams(uc.cfg.ForecastMethod, uc.cfg.HistoryDays, uc.cfg.ForecastDays, item.CurrentStock, now))
	if err != nil {
		return nil, err
	}

	qty := inventory.RecommendedQuantity(item, fc.DailyRate)
	level, escalated := inventory.RestockAlertLevel(status, fc.DaysUntilStockout, item.LeadTimeDays, uc.cfg.EscalateBeforeLeadTime)

	var stockoutDate *time.Time
	if fc.DaysUntilStockout != nil {
		d := inventory.Day(now).AddDate(0, 0, *fc.DaysUntilStockout)
		stockoutDate = &d
	}

	return &entity.RestockAlert{
		AlertID:               alertID(KindRestock, item.ID, now, uc.cfg.AlertIDBucket),
		ItemID:                item.ID,
		ItemName:              item.Name,
		Category:              item.Category,
		Unit:                  item.Unit,
		Status:                status,
		CurrentStock:          item.CurrentStock,
		RecommendedQuantity:   qty.Round(2),
		EstimatedOrderCost:    qty.Mul(decimal.NewFromInt(item.UnitCost)).Round(0),
		Level:                 level,
		Reason:                restockReason(item, status, fc.DaysUntilStockout, escalated),
		Escalated:             escalated,
		DailyRate:             fc.DailyRate,
		ForecastConfidence:    fc.Confidence,
		DaysUntilStockout:     fc.DaysUntilStockout,
		EstimatedStockoutDate: stockoutDate,
		LeadTimeDays:          item.LeadTimeDays,
		SupplierID:            item.SupplierID,
		CreatedAt:             now,
	}, nil
}

func restockReason(item entity.InventoryItem, status entity.StockStatus, daysUntilStockout *int, escalated bool) string {
	var reason string
	switch status {
	case entity.StatusOutOfStock:
		reason = fmt.Sprintf("%s agotado (stock %s %s)", item.Name, item.CurrentStock.String(), item.Unit)
	case entity.StatusCritical:
		reason = fmt.Sprintf("%s en nivel crítico: stock %s %s, mínimo %s", item.Name, item.CurrentStock.String(), item.Unit, item.MinStock.String())
	default:
		reason = fmt.Sprintf("%s bajo: stock %s %s, seguridad %s", item.Name, item.CurrentStock.String(), item.Unit, item.SafeStock.String())
	}
	if escalated && daysUntilStockout != nil {
		reason += fmt.Sprintf("; se agota en %d días, antes que el plazo de entrega de %d días", *daysUntilStockout, item.LeadTimeDays)
	}
	return reason
}

// sortRestockAlerts: nivel desc, quiebre más próximo primero (sin fecha al final), luego item_id.
func sortRestockAlerts(alerts []entity.RestockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		switch {
		case a.DaysUntilStockout != nil && b.DaysUntilStockout == nil:
			return true
		case a.DaysUntilStockout == nil && b.DaysUntilStockout != nil:
			return false
		case a.DaysUntilStockout != nil && *a.DaysUntilStockout != *b.DaysUntilStockout:
			return *a.DaysUntilStockout < *b.DaysUntilStockout
		}
		return a.ItemID < b.ItemID
	})
}

// markSeen consulta el registro de alertas. Un fallo del registro se loguea y no afecta el lote.
func markSeen(ctx context.Context, registry repository.AlertRegistry, log *logger.Logger, id string) *bool {
	if registry == nil {
		return nil
	}
	first, err := registry.MarkSeen(ctx, id)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("alert_id", id).Msg("registro de alertas no disponible")
		}
		return nil
	}
	return &first
}
