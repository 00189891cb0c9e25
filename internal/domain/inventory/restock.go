package inventory

import (
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RecommendedQuantity cantidad a pedir: max(0, max_stock − current_stock + daily_rate × lead_time).
// El término de lead time cubre lo que se consumirá mientras llega el pedido.
func RecommendedQuantity(item entity.InventoryItem, dailyRate decimal.Decimal) decimal.Decimal {
	leadTimeUsage := dailyRate.Mul(decimal.NewFromInt(int64(item.LeadTimeDays)))
	qty := item.MaxStock.Sub(item.CurrentStock).Add(leadTimeUsage)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}

// RestockAlertLevel nivel final de la alerta de reposición.
// Si escalate está activo, WARNING sube a URGENT cuando el quiebre estimado llega
// antes (o el mismo día) que un pedido hecho hoy.
func RestockAlertLevel(status entity.StockStatus, daysUntilStockout *int, leadTimeDays int, escalate bool) (entity.AlertLevel, bool) {
	level := RestockLevel(status)
	if escalate && level == entity.AlertWarning && daysUntilStockout != nil && *daysUntilStockout <= leadTimeDays {
		return entity.AlertUrgent, true
	}
	return level, false
}
