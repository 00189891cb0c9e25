package entity

import (
	"fmt"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/shopspring/decimal"
)

// InventoryItem representa un insumo de una tienda en un instante dado (snapshot del POS/ERP).
// El core nunca lo modifica; solo deriva alertas a partir de él.
type InventoryItem struct {
	ID             string
	StoreID        string
	Name           string
	Category       string
	Unit           string          // kg, l, pc...
	CurrentStock   decimal.Decimal // puede ser negativo si el POS vendió sin stock
	SafeStock      decimal.Decimal
	MinStock       decimal.Decimal
	MaxStock       decimal.Decimal
	UnitCost       int64 // unidades menores de moneda (céntimos/fen)
	SupplierID     string
	LeadTimeDays   int
	ExpirationDate *time.Time // opcional: no todos los insumos controlan caducidad
	Location       string
}

// Validate comprueba 0 ≤ MinStock ≤ SafeStock ≤ MaxStock y LeadTimeDays ≥ 0.
func (i InventoryItem) Validate() error {
	if i.MinStock.IsNegative() {
		return &domain.InvalidThresholdError{ItemID: i.ID, Detail: fmt.Sprintf("min_stock %s < 0", i.MinStock)}
	}
	if i.MinStock.GreaterThan(i.SafeStock) {
		return &domain.InvalidThresholdError{ItemID: i.ID, Detail: fmt.Sprintf("min_stock %s > safe_stock %s", i.MinStock, i.SafeStock)}
	}
	if i.SafeStock.GreaterThan(i.MaxStock) {
		return &domain.InvalidThresholdError{ItemID: i.ID, Detail: fmt.Sprintf("safe_stock %s > max_stock %s", i.SafeStock, i.MaxStock)}
	}
	if i.LeadTimeDays < 0 {
		return &domain.InvalidThresholdError{ItemID: i.ID, Detail: fmt.Sprintf("lead_time_days %d < 0", i.LeadTimeDays)}
	}
	return nil
}

// StockLevels agrupa los tres umbrales de un ítem.
type StockLevels struct {
	Safe decimal.Decimal
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// Levels devuelve los umbrales actuales del ítem.
func (i InventoryItem) Levels() StockLevels {
	return StockLevels{Safe: i.SafeStock, Min: i.MinStock, Max: i.MaxStock}
}
