package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// writeSQL emite el script de seed para PostgreSQL; las sentencias son re-ejecutables.
func writeSQL(w io.Writer, items []entity.InventoryItem, records []entity.ConsumptionRecord) error {
	var b strings.Builder
	b.WriteString("-- Snapshot de inventario generado por seed_inventory\n\n")

	if len(items) > 0 {
		b.WriteString("-- 1. Ítems\n")
		b.WriteString("INSERT INTO inventory_items (id, store_id, name, category, unit, current_stock, safe_stock, min_stock, max_stock, unit_cost, supplier_id, lead_time_days, expiration_date, location) VALUES\n")
		for i, it := range items {
			exp := "NULL"
			if it.ExpirationDate != nil {
				exp = "'" + it.ExpirationDate.Format("2006-01-02") + "'"
			}
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', %s, %s, %s, %s, %d, '%s', %d, %s, '%s')",
				escapeSQL(it.ID), escapeSQL(it.StoreID), escapeSQL(it.Name), escapeSQL(it.Category), escapeSQL(it.Unit),
				it.CurrentStock.String(), it.SafeStock.String(), it.MinStock.String(), it.MaxStock.String(),
				it.UnitCost, escapeSQL(it.SupplierID), it.LeadTimeDays, exp, escapeSQL(it.Location))
			if i < len(items)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET current_stock = EXCLUDED.current_stock, safe_stock = EXCLUDED.safe_stock,\n")
		b.WriteString("  min_stock = EXCLUDED.min_stock, max_stock = EXCLUDED.max_stock, unit_cost = EXCLUDED.unit_cost,\n")
		b.WriteString("  lead_time_days = EXCLUDED.lead_time_days, expiration_date = EXCLUDED.expiration_date;\n\n")
	}

	if len(records) > 0 {
		b.WriteString("-- 2. Consumo diario\n")
		for _, r := range records {
			fmt.Fprintf(&b, "INSERT INTO consumption_records (item_id, consumed_on, quantity) VALUES ('%s', '%s', %s)\n",
				escapeSQL(r.ItemID), r.Date.Format("2006-01-02"), r.QuantityConsumed.String())
			b.WriteString("ON CONFLICT (item_id, consumed_on) DO UPDATE SET quantity = EXCLUDED.quantity;\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
