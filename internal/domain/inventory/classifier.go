package inventory

import (
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockRatio      = 0.3
	DefaultCriticalStockRatio = 0.1
)

// StockRatios umbrales globales del motor (no por ítem).
type StockRatios struct {
	LowStockRatio      float64
	CriticalStockRatio float64 // solo aplica a ítems sin min_stock configurado
}

// DefaultStockRatios valores por defecto del clasificador.
func DefaultStockRatios() StockRatios {
	return StockRatios{LowStockRatio: DefaultLowStockRatio, CriticalStockRatio: DefaultCriticalStockRatio}
}

// Classify asigna la categoría de stock. Reglas en orden, gana la primera:
//
//	current ≤ 0                       → OUT_OF_STOCK
//	current < min                     → CRITICAL
//	min = 0 y current < safe × crit   → CRITICAL
//	current < safe × low              → LOW
//	resto                             → SUFFICIENT
func Classify(current, safe, min decimal.Decimal, r StockRatios) entity.StockStatus {
	if current.LessThanOrEqual(decimal.Zero) {
		return entity.StatusOutOfStock
	}
	if current.LessThan(min) {
		return entity.StatusCritical
	}
	if min.IsZero() && r.CriticalStockRatio > 0 &&
		current.LessThan(safe.Mul(decimal.NewFromFloat(r.CriticalStockRatio))) {
		return entity.StatusCritical
	}
	if current.LessThan(safe.Mul(decimal.NewFromFloat(r.LowStockRatio))) {
		return entity.StatusLow
	}
	return entity.StatusSufficient
}

// ClassifyItem atajo de Classify sobre un ítem.
func ClassifyItem(item entity.InventoryItem, r StockRatios) entity.StockStatus {
	return Classify(item.CurrentStock, item.SafeStock, item.MinStock, r)
}

// RestockLevel nivel de alerta base para un estado de stock (SUFFICIENT → INFO, sin alerta).
func RestockLevel(s entity.StockStatus) entity.AlertLevel {
	switch s {
	case entity.StatusOutOfStock:
		return entity.AlertCritical
	case entity.StatusCritical:
		return entity.AlertUrgent
	case entity.StatusLow:
		return entity.AlertWarning
	default:
		return entity.AlertInfo
	}
}
