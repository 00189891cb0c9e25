package inventory

import (
	"context"
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

// ReportUseCase compone clasificación, valorización y ambas alertas en un solo reporte.
// Lee el snapshot una sola vez y no marca alertas en el registro (el reporte es de consulta).
type ReportUseCase struct {
	repo       repository.InventorySnapshotRepository
	restock    *RestockUseCase
	expiration *ExpirationUseCase
	pdf        ReportPDFGenerator
	metrics    EngineMetrics
	cfg        EngineConfig
	log        *logger.Logger
	now        func() time.Time
}

// NewReportUseCase construye el agregador. pdf puede ser nil si no se exporta a PDF.
func NewReportUseCase(
	repo repository.InventorySnapshotRepository,
	pdf ReportPDFGenerator,
	metrics EngineMetrics,
	cfg EngineConfig,
	log *logger.Logger,
) *ReportUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		repo:       repo,
		restock:    NewRestockUseCase(repo, nil, metrics, cfg, log),
		expiration: NewExpirationUseCase(repo, nil, metrics, cfg, log),
		pdf:        pdf,
		metrics:    metrics,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// GetInventoryReport conteos por estado (total y por categoría), valor total y listas de alertas.
func (uc *ReportUseCase) GetInventoryReport(ctx context.Context, storeID, category string) (*dto.InventoryReportDTO, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput)
	}
	started := time.Now()
	defer func() { uc.metrics.ObserveRun(KindReport, time.Since(started)) }()

	items, err := uc.repo.FetchSnapshot(ctx, storeID, category)
	if err != nil {
		return nil, upstream("fetch_snapshot", err)
	}
	now := uc.now()

	restockAlerts, restockFailures, err := uc.restock.evaluate(ctx, items, now)
	if err != nil {
		return nil, err
	}
	expirationAlerts, expirationFailures, err := uc.expiration.evaluate(ctx, items, now)
	if err != nil {
		return nil, err
	}

	report := &dto.InventoryReportDTO{
		StoreID:               storeID,
		Category:              category,
		GeneratedAt:           now,
		TotalItems:            len(items),
		TotalValue:            decimal.Zero,
		StatusCounts:          emptyStatusCounts(),
		RestockAlerts:         make([]dto.RestockAlertDTO, 0, len(restockAlerts)),
		ExpirationAlerts:      make([]dto.ExpirationAlertDTO, 0, len(expirationAlerts)),
		RestockLevelCounts:    emptyLevelCounts(),
		ExpirationLevelCounts: emptyLevelCounts(),
		Failures:              append(restockFailures, expirationFailures...),
	}

	ratios := uc.cfg.stockRatios()
	byCategory := make(map[string]*dto.CategorySummaryDTO)
	for _, item := range items {
		status := string(inventory.ClassifyItem(item, ratios))
		value := inventory.ItemValue(item)

		report.StatusCounts[status]++
		report.TotalValue = report.TotalValue.Add(value)

		cs, ok := byCategory[item.Category]
		if !ok {
			cs = &dto.CategorySummaryDTO{Category: item.Category, TotalValue: decimal.Zero, StatusCounts: emptyStatusCounts()}
			byCategory[item.Category] = cs
		}
		cs.ItemCount++
		cs.TotalValue = cs.TotalValue.Add(value)
		cs.StatusCounts[status]++
	}
	report.TotalValue = report.TotalValue.Round(0)

	report.Categories = make([]dto.CategorySummaryDTO, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.TotalValue = cs.TotalValue.Round(0)
		report.Categories = append(report.Categories, *cs)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	for _, a := range restockAlerts {
		report.RestockAlerts = append(report.RestockAlerts, toRestockAlertDTO(a, nil))
		report.RestockLevelCounts[a.Level.String()]++
	}
	for _, a := range expirationAlerts {
		report.ExpirationAlerts = append(report.ExpirationAlerts, toExpirationAlertDTO(a, nil))
		report.ExpirationLevelCounts[a.Level.String()]++
	}

	uc.log.Info().
		Str("store_id", storeID).
		Int("items", len(items)).
		Str("total_value", report.TotalValue.String()).
		Int("restock_alerts", len(report.RestockAlerts)).
		Int("expiration_alerts", len(report.ExpirationAlerts)).
		Msg("reporte de inventario generado")

	return report, nil
}

// ReportPDF genera el reporte y lo exporta a PDF.
func (uc *ReportUseCase) ReportPDF(ctx context.Context, storeID, category string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	report, err := uc.GetInventoryReport(ctx, storeID, category)
	if err != nil {
		return nil, err
	}
	b, err := uc.pdf.GenerateReportPDF(report)
	if err != nil {
		return nil, fmt.Errorf("generar PDF del reporte: %w", err)
	}
	return b, nil
}

func emptyStatusCounts() map[string]int {
	m := make(map[string]int, len(entity.StockStatuses))
	for _, s := range entity.StockStatuses {
		m[string(s)] = 0
	}
	return m
}

func emptyLevelCounts() map[string]int {
	m := make(map[string]int, len(entity.AlertLevels))
	for _, l := range entity.AlertLevels {
		m[l.String()] = 0
	}
	return m
}
