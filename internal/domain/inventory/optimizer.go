package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultServiceLevel        = 0.95
	DefaultReorderCycleDays    = 7
	DefaultSafeStockMultiplier = 1.5
)

// OptimizerParams política del optimizador de niveles.
type OptimizerParams struct {
	AnalysisDays        int
	ServiceLevel        float64 // fracción objetivo, en (0, 1)
	ReorderCycleDays    int
	SafeStockMultiplier float64   // recommended_safe = recommended_min × multiplicador
	Through             time.Time // último día analizado; ver ForecastParams.Through
}

// OptimizeLevels recalcula safe/min/max a partir de la media y desviación del consumo diario:
//
//	safety = z(service_level) × σ × √lead_time
//	min    = μ × lead_time + safety
//	safe   = min × multiplicador
//	max    = safe + μ × ciclo_de_reorden
//
// Con menos de 2 × lead_time días de datos devuelve *domain.InsufficientHistoryError.
func OptimizeLevels(item entity.InventoryItem, records []entity.ConsumptionRecord, p OptimizerParams) (entity.StockOptimizationResult, error) {
	if p.AnalysisDays < 1 {
		return entity.StockOptimizationResult{}, fmt.Errorf("%w: analysis_days debe ser ≥ 1", domain.ErrInvalidInput)
	}
	if p.ServiceLevel <= 0 || p.ServiceLevel >= 1 {
		return entity.StockOptimizationResult{}, fmt.Errorf("%w: service_level %.3f fuera de (0, 1)", domain.ErrInvalidInput, p.ServiceLevel)
	}
	if p.SafeStockMultiplier <= 0 {
		p.SafeStockMultiplier = DefaultSafeStockMultiplier
	}
	if p.ReorderCycleDays < 0 {
		p.ReorderCycleDays = DefaultReorderCycleDays
	}

	series, _ := DailySeriesThrough(records, p.Through)
	window := tail(series, p.AnalysisDays)

	required := 2 * item.LeadTimeDays
	if required < 1 {
		required = 1
	}
	if len(window) < required {
		return entity.StockOptimizationResult{}, &domain.InsufficientHistoryError{
			ItemID: item.ID, Available: len(window), Required: required,
		}
	}

	mu, variance := stat.PopMeanVariance(window, nil)
	sigma := math.Sqrt(variance)
	z := distuv.UnitNormal.Quantile(p.ServiceLevel)
	lead := float64(item.LeadTimeDays)

	safety := math.Max(0, z*sigma*math.Sqrt(lead))
	recMin := mu*lead + safety
	recSafe := recMin * p.SafeStockMultiplier
	recMax := recSafe + mu*float64(p.ReorderCycleDays)

	return entity.StockOptimizationResult{
		ItemID:        item.ID,
		CurrentLevels: item.Levels(),
		RecommendedLevels: entity.StockLevels{
			Safe: decimal.NewFromFloat(recSafe).Round(2),
			Min:  decimal.NewFromFloat(recMin).Round(2),
			Max:  decimal.NewFromFloat(recMax).Round(2),
		},
		SafetyStock:        decimal.NewFromFloat(safety).Round(2),
		MeanDailyUsage:     mu,
		StdDevDailyUsage:   sigma,
		ZScore:             z,
		LeadTimeDays:       item.LeadTimeDays,
		AnalysisWindowDays: len(window),
		ServiceLevel:       p.ServiceLevel,
	}, nil
}
