package inventory

import (
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockValue valor del stock en unidades menores de moneda: current_stock × unit_cost.
// Un stock negativo (venta sin existencias) no resta valor.
func StockValue(current decimal.Decimal, unitCost int64) decimal.Decimal {
	if current.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return current.Mul(decimal.NewFromInt(unitCost))
}

// ItemValue atajo de StockValue sobre un ítem.
func ItemValue(item entity.InventoryItem) decimal.Decimal {
	return StockValue(item.CurrentStock, item.UnitCost)
}
