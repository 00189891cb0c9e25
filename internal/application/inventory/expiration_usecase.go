package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/repository"
	"github.com/hnrm110901-cell/zhilian-os-sub005/pkg/logger"
)

// ExpirationUseCase genera alertas de caducidad graduadas por días restantes.
type ExpirationUseCase struct {
	repo     repository.InventorySnapshotRepository
	registry repository.AlertRegistry
	metrics  EngineMetrics
	cfg      EngineConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewExpirationUseCase construye el caso de uso. registry, metrics y log pueden ser nil.
func NewExpirationUseCase(
	repo repository.InventorySnapshotRepository,
	registry repository.AlertRegistry,
	metrics EngineMetrics,
	cfg EngineConfig,
	log *logger.Logger,
) *ExpirationUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExpirationUseCase{repo: repo, registry: registry, metrics: metrics, cfg: cfg, log: log, now: time.Now}
}

// CheckExpiration revisa los ítems con fecha de caducidad y stock positivo.
// Los ítems sin fecha de caducidad se excluyen sin error.
func (uc *ExpirationUseCase) CheckExpiration(ctx context.Context, storeID, category string) (*dto.ExpirationAlertBatch, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput)
	}
	started := time.Now()
	defer func() { uc.metrics.ObserveRun(KindExpiration, time.Since(started)) }()

	items, err := uc.repo.FetchSnapshot(ctx, storeID, category)
	if err != nil {
		return nil, upstream("fetch_snapshot", err)
	}

	now := uc.now()
	alerts, failures, err := uc.evaluate(ctx, items, now)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ExpirationAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toExpirationAlertDTO(a, markSeen(ctx, uc.registry, uc.log, a.AlertID)))
		uc.metrics.AlertEmitted(KindExpiration, a.Level)
	}
	for _, f := range failures {
		uc.metrics.ItemFailed(KindExpiration, f.Code)
	}

	uc.log.Info().
		Str("store_id", storeID).
		Int("items", len(items)).
		Int("alerts", len(out)).
		Msg("revisión de caducidad completada")

	return &dto.ExpirationAlertBatch{
		StoreID:        storeID,
		Category:       category,
		GeneratedAt:    now,
		ItemsEvaluated: len(items),
		Alerts:         out,
		Failures:       failures,
	}, nil
}

func (uc *ExpirationUseCase) evaluate(ctx context.Context, items []entity.InventoryItem, now time.Time) ([]entity.ExpirationAlert, []dto.ItemFailure, error) {
	windows := uc.cfg.expirationWindows()
	alerts, failures, err := fanOut(ctx, uc.cfg.Workers, items, func(_ context.Context, item entity.InventoryItem) (*entity.ExpirationAlert, error) {
		return uc.evaluateItem(item, now, windows), nil
	})
	if err != nil {
		return nil, nil, err
	}
	// Lo más urgente primero: menos días restantes, luego mayor valor en riesgo.
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.DaysUntilExpiration != b.DaysUntilExpiration {
			return a.DaysUntilExpiration < b.DaysUntilExpiration
		}
		if !a.StockValue.Equal(b.StockValue) {
			return a.StockValue.GreaterThan(b.StockValue)
		}
		return a.ItemID < b.ItemID
	})
	return alerts, failures, nil
}

func (uc *ExpirationUseCase) evaluateItem(item entity.InventoryItem, now time.Time, w inventory.ExpirationWindows) *entity.ExpirationAlert {
	if item.ExpirationDate == nil || !item.CurrentStock.IsPositive() {
		return nil
	}
	days := inventory.DaysUntil(now, *item.ExpirationDate)
	level, action, ok := inventory.ExpirationLevel(days, w)
	if !ok {
		return nil
	}
	return &entity.ExpirationAlert{
		AlertID:             alertID(KindExpiration, item.ID, now, uc.cfg.AlertIDBucket),
		ItemID:              item.ID,
		ItemName:            item.Name,
		Category:            item.Category,
		Unit:                item.Unit,
		CurrentStock:        item.CurrentStock,
		StockValue:          inventory.ItemValue(item).Round(0),
		ExpirationDate:      *item.ExpirationDate,
		DaysUntilExpiration: days,
		Level:               level,
		RecommendedAction:   action,
		Reason:              expirationReason(item, days),
		Location:            item.Location,
		CreatedAt:           now,
	}
}

func expirationReason(item entity.InventoryItem, days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%s caducado hace %d días (%s %s en stock)", item.Name, -days, item.CurrentStock.String(), item.Unit)
	case days == 0:
		return fmt.Sprintf("%s caduca hoy (%s %s en stock)", item.Name, item.CurrentStock.String(), item.Unit)
	default:
		return fmt.Sprintf("%s caduca en %d días (%s %s en stock)", item.Name, days, item.CurrentStock.String(), item.Unit)
	}
}
