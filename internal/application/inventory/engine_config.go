package inventory

import (
	"fmt"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// EngineConfig configuración global del motor, inyectada al construir los casos de uso.
type EngineConfig struct {
	LowStockRatio          float64
	CriticalStockRatio     float64
	ExpiringSoonDays       int
	ExpiringUrgentDays     int
	ForecastDecay          float64
	ForecastMethod         entity.ForecastMethod
	HistoryDays            int
	ForecastDays           int
	ServiceLevel           float64
	ReorderCycleDays       int
	SafeStockMultiplier    float64
	EscalateBeforeLeadTime bool
	Workers                int
	AlertIDBucket          time.Duration
}

// DefaultEngineConfig valores por defecto del motor.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		LowStockRatio:          inventory.DefaultLowStockRatio,
		CriticalStockRatio:     inventory.DefaultCriticalStockRatio,
		ExpiringSoonDays:       inventory.DefaultExpiringSoonDays,
		ExpiringUrgentDays:     inventory.DefaultExpiringUrgentDays,
		ForecastDecay:          inventory.DefaultDecay,
		ForecastMethod:         entity.MethodWeightedAverage,
		HistoryDays:            30,
		ForecastDays:           7,
		ServiceLevel:           inventory.DefaultServiceLevel,
		ReorderCycleDays:       inventory.DefaultReorderCycleDays,
		SafeStockMultiplier:    inventory.DefaultSafeStockMultiplier,
		EscalateBeforeLeadTime: true,
		Workers:                8,
		AlertIDBucket:          time.Hour,
	}
}

// Validate rechaza configuraciones fuera de rango al arrancar.
func (c EngineConfig) Validate() error {
	switch {
	case c.LowStockRatio <= 0 || c.LowStockRatio > 1:
		return invalidConfig("low_stock_ratio %.3f fuera de (0, 1]", c.LowStockRatio)
	case c.CriticalStockRatio < 0 || c.CriticalStockRatio > c.LowStockRatio:
		return invalidConfig("critical_stock_ratio %.3f debe estar en [0, low_stock_ratio]", c.CriticalStockRatio)
	case c.ExpiringUrgentDays < 0 || c.ExpiringSoonDays < c.ExpiringUrgentDays:
		return invalidConfig("se requiere 0 ≤ expiring_urgent_days (%d) ≤ expiring_soon_days (%d)", c.ExpiringUrgentDays, c.ExpiringSoonDays)
	case c.ForecastDecay <= 0 || c.ForecastDecay > 1:
		return invalidConfig("forecast_decay %.3f fuera de (0, 1]", c.ForecastDecay)
	case c.HistoryDays < 1 || c.ForecastDays < 1:
		return invalidConfig("history_days y forecast_days deben ser ≥ 1")
	case c.ServiceLevel <= 0 || c.ServiceLevel >= 1:
		return invalidConfig("service_level %.3f fuera de (0, 1)", c.ServiceLevel)
	case c.ReorderCycleDays < 0:
		return invalidConfig("reorder_cycle_days %d < 0", c.ReorderCycleDays)
	case c.SafeStockMultiplier < 1:
		return invalidConfig("safe_stock_multiplier %.3f < 1", c.SafeStockMultiplier)
	case c.Workers < 1:
		return invalidConfig("workers %d < 1", c.Workers)
	case c.AlertIDBucket <= 0:
		return invalidConfig("alert_id_bucket debe ser positivo")
	}
	if _, err := entity.ParseForecastMethod(string(c.ForecastMethod)); err != nil {
		return invalidConfig("%v", err)
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: configuración del motor: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (c EngineConfig) stockRatios() inventory.StockRatios {
	return inventory.StockRatios{LowStockRatio: c.LowStockRatio, CriticalStockRatio: c.CriticalStockRatio}
}

func (c EngineConfig) expirationWindows() inventory.ExpirationWindows {
	return inventory.ExpirationWindows{SoonDays: c.ExpiringSoonDays, UrgentDays: c.ExpiringUrgentDays}
}

// lastClosedDay último día completo antes de now: el consumo de hoy aún no está cerrado.
func lastClosedDay(now time.Time) time.Time {
	return inventory.Day(now).AddDate(0, 0, -1)
}

func (c EngineConfig) forecastParams(method entity.ForecastMethod, historyDays, forecastDays int, stock decimal.Decimal, now time.Time) inventory.ForecastParams {
	return inventory.ForecastParams{
		HistoryDays:  historyDays,
		ForecastDays: forecastDays,
		Method:       method,
		Decay:        c.ForecastDecay,
		CurrentStock: stock,
		Through:      lastClosedDay(now),
	}
}

func (c EngineConfig) optimizerParams(analysisDays int, now time.Time) inventory.OptimizerParams {
	return inventory.OptimizerParams{
		AnalysisDays:        analysisDays,
		ServiceLevel:        c.ServiceLevel,
		ReorderCycleDays:    c.ReorderCycleDays,
		SafeStockMultiplier: c.SafeStockMultiplier,
		Through:             lastClosedDay(now),
	}
}
