package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ForecastMethod selecciona el método de pronóstico de consumo.
type ForecastMethod string

const (
	MethodMovingAverage    ForecastMethod = "moving_average"
	MethodWeightedAverage  ForecastMethod = "weighted_average"
	MethodLinearRegression ForecastMethod = "linear_regression"
	MethodSeasonal         ForecastMethod = "seasonal"
)

// ForecastMethods lista los métodos soportados.
var ForecastMethods = []ForecastMethod{
	MethodMovingAverage, MethodWeightedAverage, MethodLinearRegression, MethodSeasonal,
}

// ParseForecastMethod acepta el nombre del método sin distinguir mayúsculas.
func ParseForecastMethod(s string) (ForecastMethod, error) {
	m := ForecastMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ForecastMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("método de pronóstico desconocido: %q", s)
}

// ForecastResult resultado del pronóstico para un ítem.
type ForecastResult struct {
	ItemID               string
	Method               ForecastMethod  // método efectivamente aplicado (seasonal puede degradar a moving_average)
	PredictedConsumption decimal.Decimal // total sobre el horizonte
	DailyRate            decimal.Decimal
	Confidence           float64
	DaysUntilStockout    *int // nil si DailyRate es cero
	HistoryDaysUsed      int
	Fallback             bool
}
