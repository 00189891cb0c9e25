package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemFailure fallo por ítem dentro de un lote. El lote nunca se aborta por un ítem.
type ItemFailure struct {
	ItemID  string `json:"item_id"`
	Code    string `json:"code"` // INSUFFICIENT_DATA, INSUFFICIENT_HISTORY, INVALID_THRESHOLD, UPSTREAM_UNAVAILABLE, INTERNAL
	Message string `json:"message"`
}

// RestockAlertDTO alerta de reposición tal como la reciben los agentes y el dashboard.
type RestockAlertDTO struct {
	AlertID               string          `json:"alert_id"`
	ItemID                string          `json:"item_id"`
	ItemName              string          `json:"item_name"`
	Category              string          `json:"category"`
	Unit                  string          `json:"unit"`
	Status                string          `json:"status"`
	AlertLevel            string          `json:"alert_level"`
	Escalated             bool            `json:"escalated"`
	Reason                string          `json:"reason"`
	CurrentStock          decimal.Decimal `json:"current_stock"`
	RecommendedQuantity   decimal.Decimal `json:"recommended_quantity"`
	EstimatedOrderCost    decimal.Decimal `json:"estimated_order_cost"` // unidades menores de moneda
	DailyRate             decimal.Decimal `json:"daily_rate"`
	ForecastConfidence    float64         `json:"forecast_confidence"`
	DaysUntilStockout     *int            `json:"days_until_stockout"`
	EstimatedStockoutDate *time.Time      `json:"estimated_stockout_date"`
	LeadTimeDays          int             `json:"lead_time_days"`
	SupplierID            string          `json:"supplier_id,omitempty"`
	FirstSeen             *bool           `json:"first_seen,omitempty"` // nil si no hay registro de alertas
	CreatedAt             time.Time       `json:"created_at"`
}

// RestockAlertBatch resultado de generate_restock_alerts para una tienda.
type RestockAlertBatch struct {
	StoreID        string            `json:"store_id"`
	Category       string            `json:"category,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
	ItemsEvaluated int               `json:"items_evaluated"`
	Alerts         []RestockAlertDTO `json:"alerts"`
	Failures       []ItemFailure     `json:"failures"`
}

// ExpirationAlertDTO alerta de caducidad.
type ExpirationAlertDTO struct {
	AlertID             string          `json:"alert_id"`
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	Category            string          `json:"category"`
	Unit                string          `json:"unit"`
	AlertLevel          string          `json:"alert_level"`
	RecommendedAction   string          `json:"recommended_action"`
	Reason              string          `json:"reason"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	StockValue          decimal.Decimal `json:"stock_value"`
	ExpirationDate      time.Time       `json:"expiration_date"`
	DaysUntilExpiration int             `json:"days_until_expiration"`
	Location            string          `json:"location,omitempty"`
	FirstSeen           *bool           `json:"first_seen,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ExpirationAlertBatch resultado de check_expiration para una tienda.
type ExpirationAlertBatch struct {
	StoreID        string               `json:"store_id"`
	Category       string               `json:"category,omitempty"`
	GeneratedAt    time.Time            `json:"generated_at"`
	ItemsEvaluated int                  `json:"items_evaluated"`
	Alerts         []ExpirationAlertDTO `json:"alerts"`
	Failures       []ItemFailure        `json:"failures"`
}

// ForecastDTO pronóstico de consumo de un ítem.
type ForecastDTO struct {
	ItemID               string          `json:"item_id"`
	Method               string          `json:"method"`
	Fallback             bool            `json:"fallback"`
	PredictedConsumption decimal.Decimal `json:"predicted_consumption"`
	DailyRate            decimal.Decimal `json:"daily_rate"`
	Confidence           float64         `json:"confidence"`
	DaysUntilStockout    *int            `json:"days_until_stockout"`
	HistoryDaysUsed      int             `json:"history_days_used"`
	ForecastDays         int             `json:"forecast_days"`
}

// StockLevelsDTO umbrales safe/min/max.
type StockLevelsDTO struct {
	Safe decimal.Decimal `json:"safe"`
	Min  decimal.Decimal `json:"min"`
	Max  decimal.Decimal `json:"max"`
}

// OptimizationDTO recomendación de niveles de stock.
type OptimizationDTO struct {
	ItemID             string          `json:"item_id"`
	CurrentLevels      StockLevelsDTO  `json:"current_levels"`
	RecommendedLevels  StockLevelsDTO  `json:"recommended_levels"`
	SafetyStock        decimal.Decimal `json:"safety_stock"`
	MeanDailyUsage     float64         `json:"mean_daily_usage"`
	StdDevDailyUsage   float64         `json:"stddev_daily_usage"`
	ZScore             float64         `json:"z_score"`
	LeadTimeDays       int             `json:"lead_time_days"`
	AnalysisWindowDays int             `json:"analysis_window_days"`
	ServiceLevel       float64         `json:"service_level"`
}

// CategorySummaryDTO resumen de una categoría en el reporte.
type CategorySummaryDTO struct {
	Category     string          `json:"category"`
	ItemCount    int             `json:"item_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	StatusCounts map[string]int  `json:"status_counts"`
}

// InventoryReportDTO reporte agregado de una tienda.
type InventoryReportDTO struct {
	StoreID               string               `json:"store_id"`
	Category              string               `json:"category,omitempty"`
	GeneratedAt           time.Time            `json:"generated_at"`
	TotalItems            int                  `json:"total_items"`
	TotalValue            decimal.Decimal      `json:"total_value"` // Σ current_stock × unit_cost, unidades menores
	StatusCounts          map[string]int       `json:"status_counts"`
	Categories            []CategorySummaryDTO `json:"categories"`
	RestockAlerts         []RestockAlertDTO    `json:"restock_alerts"`
	ExpirationAlerts      []ExpirationAlertDTO `json:"expiration_alerts"`
	RestockLevelCounts    map[string]int       `json:"restock_level_counts"`
	ExpirationLevelCounts map[string]int       `json:"expiration_level_counts"`
	Failures              []ItemFailure        `json:"failures"`
}
