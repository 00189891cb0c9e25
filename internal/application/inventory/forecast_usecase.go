package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// ForecastUseCase expone el pronóstico de un ítem (lo consume el agente de pedidos).
type ForecastUseCase struct {
	repo    repository.InventorySnapshotRepository
	metrics EngineMetrics
	cfg     EngineConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewForecastUseCase construye el caso de uso.
func NewForecastUseCase(repo repository.InventorySnapshotRepository, metrics EngineMetrics, cfg EngineConfig, log *logger.Logger) *ForecastUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ForecastUseCase{repo: repo, metrics: metrics, cfg: cfg, log: log, now: time.Now}
}

// ForecastItem pronostica el consumo del ítem. method vacío y días en 0 toman los valores de la configuración.
func (uc *ForecastUseCase) ForecastItem(ctx context.Context, itemID, method string, historyDays, forecastDays int) (*dto.ForecastDTO, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	m := uc.cfg.ForecastMethod
	if method != "" {
		parsed, err := entity.ParseForecastMethod(method)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		m = parsed
	}
	if historyDays == 0 {
		historyDays = uc.cfg.HistoryDays
	}
	if forecastDays == 0 {
		forecastDays = uc.cfg.ForecastDays
	}
	if historyDays < 1 || forecastDays < 1 {
		return nil, fmt.Errorf("%w: history_days y forecast_days deben ser ≥ 1", domain.ErrInvalidInput)
	}
	started := time.Now()
	defer func() { uc.metrics.ObserveRun(KindForecast, time.Since(started)) }()

	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, upstream("get_item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}

	now := uc.now()
	since := inventory.Day(now).AddDate(0, 0, -historyDays)
	history, err := uc.repo.FetchHistory(ctx, item.ID, since)
	if err != nil {
		return nil, upstream("fetch_history", err)
	}

	res, err := inventory.Forecast(item.ID, history, uc.cfg.forecastParams(m, historyDays, forecastDays, item.CurrentStock, now))
	if err != nil {
		uc.metrics.ItemFailed(KindForecast, ErrorCode(err))
		return nil, err
	}
	if res.Fallback {
		uc.log.Debug().Str("item_id", item.ID).Int("days", res.HistoryDaysUsed).
			Msg("historial corto para estacional, se usa media móvil")
	}
	out := toForecastDTO(res, forecastDays)
	return &out, nil
}
