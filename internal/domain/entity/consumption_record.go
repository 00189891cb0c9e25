package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRecord consumo diario de un ítem. Un registro por día; los días sin registro
// cuentan como consumo cero.
type ConsumptionRecord struct {
	ItemID           string
	Date             time.Time
	QuantityConsumed decimal.Decimal
}
