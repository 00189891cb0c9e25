package entity

import "github.com/shopspring/decimal"

// StockOptimizationResult niveles recomendados a partir de la variabilidad del consumo.
type StockOptimizationResult struct {
	ItemID             string
	CurrentLevels      StockLevels
	RecommendedLevels  StockLevels
	SafetyStock        decimal.Decimal
	MeanDailyUsage     float64 // μ
	StdDevDailyUsage   float64 // σ
	ZScore             float64
	LeadTimeDays       int
	AnalysisWindowDays int // días efectivamente analizados
	ServiceLevel       float64
}
