package inventory_test

import (
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// lunes 2026-03-02
var testStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// recordsFrom construye un registro por día a partir de start.
func recordsFrom(itemID string, start time.Time, qty ...float64) []entity.ConsumptionRecord {
	out := make([]entity.ConsumptionRecord, 0, len(qty))
	for i, q := range qty {
		out = append(out, entity.ConsumptionRecord{
			ItemID:           itemID,
			Date:             start.AddDate(0, 0, i),
			QuantityConsumed: decimal.NewFromFloat(q),
		})
	}
	return out
}

func constant(k float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
