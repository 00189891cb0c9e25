package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// OptimizerUseCase recomienda safe/min/max para un ítem a partir de su historial.
type OptimizerUseCase struct {
	repo    repository.InventorySnapshotRepository
	metrics EngineMetrics
	cfg     EngineConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewOptimizerUseCase construye el caso de uso.
func NewOptimizerUseCase(repo repository.InventorySnapshotRepository, metrics EngineMetrics, cfg EngineConfig, log *logger.Logger) *OptimizerUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OptimizerUseCase{repo: repo, metrics: metrics, cfg: cfg, log: log, now: time.Now}
}

// OptimizeStockLevels analiza los últimos analysisDays días (0 = history_days de la configuración).
func (uc *OptimizerUseCase) OptimizeStockLevels(ctx context.Context, itemID string, analysisDays int) (*entity.StockOptimizationResult, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	if analysisDays == 0 {
		analysisDays = uc.cfg.HistoryDays
	}
	if analysisDays < 1 {
		return nil, fmt.Errorf("%w: analysis_days debe ser ≥ 1", domain.ErrInvalidInput)
	}
	started := time.Now()
	defer func() { uc.metrics.ObserveRun(KindOptimization, time.Since(started)) }()

	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, upstream("get_item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	if item.LeadTimeDays < 0 {
		return nil, &domain.InvalidThresholdError{ItemID: item.ID, Detail: fmt.Sprintf("lead_time_days %d < 0", item.LeadTimeDays)}
	}

	now := uc.now()
	since := inventory.Day(now).AddDate(0, 0, -analysisDays)
	history, err := uc.repo.FetchHistory(ctx, item.ID, since)
	if err != nil {
		return nil, upstream("fetch_history", err)
	}

	res, err := inventory.OptimizeLevels(*item, history, uc.cfg.optimizerParams(analysisDays, now))
	if err != nil {
		uc.metrics.ItemFailed(KindOptimization, ErrorCode(err))
		return nil, err
	}
	uc.log.Debug().
		Str("item_id", item.ID).
		Float64("mean", res.MeanDailyUsage).
		Float64("stddev", res.StdDevDailyUsage).
		Str("recommended_min", res.RecommendedLevels.Min.String()).
		Msg("niveles de stock optimizados")
	return &res, nil
}
