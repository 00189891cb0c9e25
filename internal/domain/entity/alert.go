package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus categoría del stock actual frente a sus umbrales.
type StockStatus string

const (
	StatusSufficient StockStatus = "SUFFICIENT"
	StatusLow        StockStatus = "LOW"
	StatusCritical   StockStatus = "CRITICAL"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// StockStatuses en orden de severidad creciente.
var StockStatuses = []StockStatus{StatusSufficient, StatusLow, StatusCritical, StatusOutOfStock}

// AlertLevel nivel de alerta. El orden numérico es el orden de severidad:
// INFO < WARNING < URGENT < CRITICAL.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertUrgent
	AlertCritical
)

// AlertLevels en orden de severidad creciente.
var AlertLevels = []AlertLevel{AlertInfo, AlertWarning, AlertUrgent, AlertCritical}

var alertLevelNames = [...]string{"INFO", "WARNING", "URGENT", "CRITICAL"}

func (l AlertLevel) String() string {
	if l < AlertInfo || l > AlertCritical {
		return fmt.Sprintf("AlertLevel(%d)", int(l))
	}
	return alertLevelNames[l]
}

// Valid indica si l es uno de los cuatro niveles definidos.
func (l AlertLevel) Valid() bool { return l >= AlertInfo && l <= AlertCritical }

// MarshalText serializa el nivel por nombre (JSON incluido).
func (l AlertLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("nivel de alerta inválido: %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText acepta los nombres INFO, WARNING, URGENT, CRITICAL.
func (l *AlertLevel) UnmarshalText(b []byte) error {
	for i, name := range alertLevelNames {
		if string(b) == name {
			*l = AlertLevel(i)
			return nil
		}
	}
	return fmt.Errorf("nivel de alerta desconocido: %q", string(b))
}

// ExpirationAction disposición recomendada para stock próximo a caducar.
type ExpirationAction string

const (
	ActionPromotion           ExpirationAction = "promotion"
	ActionInternalConsumption ExpirationAction = "internal_consumption"
	ActionDelist              ExpirationAction = "delist"
)

// RestockAlert alerta de reposición para un ítem.
type RestockAlert struct {
	AlertID               string // determinista: ítem + instante de generación (por bucket)
	ItemID                string
	ItemName              string
	Category              string
	Unit                  string
	Status                StockStatus
	CurrentStock          decimal.Decimal
	RecommendedQuantity   decimal.Decimal // ≥ 0
	EstimatedOrderCost    decimal.Decimal // RecommendedQuantity × UnitCost, unidades menores
	Level                 AlertLevel
	Reason                string
	Escalated             bool // WARNING→URGENT porque el quiebre llega antes que el pedido
	DailyRate             decimal.Decimal
	ForecastConfidence    float64
	DaysUntilStockout     *int
	EstimatedStockoutDate *time.Time
	LeadTimeDays          int
	SupplierID            string
	CreatedAt             time.Time
}

// ExpirationAlert alerta de caducidad para un ítem con stock.
type ExpirationAlert struct {
	AlertID             string
	ItemID              string
	ItemName            string
	Category            string
	Unit                string
	CurrentStock        decimal.Decimal
	StockValue          decimal.Decimal // unidades menores de moneda en riesgo
	ExpirationDate      time.Time
	DaysUntilExpiration int // negativo = ya caducado
	Level               AlertLevel
	RecommendedAction   ExpirationAction
	Reason              string
	Location            string
	CreatedAt           time.Time
}
