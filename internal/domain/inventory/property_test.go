package inventory_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/inventory"
)

func severity(s entity.StockStatus) int {
	for i, v := range entity.StockStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Más stock nunca empeora la categoría.
func TestClassify_Monotonia(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("current_a ≤ current_b ⇒ severidad(a) ≥ severidad(b)", prop.ForAll(
		func(safe, minFrac, a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			s := decimal.NewFromFloat(safe)
			m := decimal.NewFromFloat(safe * minFrac)
			r := inventory.DefaultStockRatios()
			sa := inventory.Classify(decimal.NewFromFloat(a), s, m, r)
			sb := inventory.Classify(decimal.NewFromFloat(b), s, m, r)
			return severity(sa) >= severity(sb)
		},
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 1),
		gen.Float64Range(-20, 600),
		gen.Float64Range(-20, 600),
	))

	properties.TestingRun(t)
}

// finalLevel nivel que acaba en la alerta de reposición; SUFFICIENT no genera alerta (INFO).
func finalLevel(stock float64, history []entity.ConsumptionRecord, safe, min decimal.Decimal, lead int) (entity.AlertLevel, bool) {
	current := decimal.NewFromFloat(stock)
	status := inventory.Classify(current, safe, min, inventory.DefaultStockRatios())
	if status == entity.StatusSufficient {
		return entity.AlertInfo, true
	}
	fc, err := inventory.Forecast("a", history, inventory.ForecastParams{
		HistoryDays: 30, ForecastDays: 7, Method: entity.MethodWeightedAverage, CurrentStock: current,
	})
	if err != nil {
		return 0, false
	}
	level, _ := inventory.RestockAlertLevel(status, fc.DaysUntilStockout, lead, true)
	return level, true
}

// Con historial y umbrales fijos, más stock nunca sube el nivel final, escalado incluido.
func TestRestockAlertLevel_MonotoniaConEscalado(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("current_a ≤ current_b ⇒ nivel(a) ≥ nivel(b)", prop.ForAll(
		func(qty []float64, safe, minFrac float64, lead int, a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			history := recordsFrom("a", testStart, qty...)
			s := decimal.NewFromFloat(safe)
			m := decimal.NewFromFloat(safe * minFrac)
			la, okA := finalLevel(a, history, s, m, lead)
			lb, okB := finalLevel(b, history, s, m, lead)
			return okA && okB && la >= lb
		},
		gen.SliceOfN(20, gen.Float64Range(0, 40)),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 1),
		gen.IntRange(0, 14),
		gen.Float64Range(-20, 600),
		gen.Float64Range(-20, 600),
	))

	properties.TestingRun(t)
}

func TestRecommendedQuantity_NuncaNegativa(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cantidad recomendada ≥ 0", prop.ForAll(
		func(current, max, rate float64, lead int) bool {
			item := entity.InventoryItem{
				CurrentStock: decimal.NewFromFloat(current),
				MaxStock:     decimal.NewFromFloat(max),
				LeadTimeDays: lead,
			}
			return !inventory.RecommendedQuantity(item, decimal.NewFromFloat(rate)).IsNegative()
		},
		gen.Float64Range(-50, 1000),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

// Con consumo constante los tres métodos no estacionales devuelven la misma tasa.
func TestForecast_ConstanteCoincide(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	methods := []entity.ForecastMethod{
		entity.MethodMovingAverage, entity.MethodWeightedAverage, entity.MethodLinearRegression,
	}

	properties.Property("tasa = k para todo método", prop.ForAll(
		func(k float64, n int) bool {
			records := recordsFrom("a", testStart, constant(k, n)...)
			for _, m := range methods {
				res, err := inventory.Forecast("a", records, inventory.ForecastParams{
					HistoryDays: n, ForecastDays: 7, Method: m,
				})
				if err != nil {
					return false
				}
				if math.Abs(res.DailyRate.InexactFloat64()-k) > 1e-3 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 200),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

func TestForecast_ConfianzaAcotada(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("0.1 ≤ confianza ≤ 1 y consumo ≥ 0", prop.ForAll(
		func(qty []float64, historyDays int, idx int) bool {
			if len(qty) == 0 {
				return true
			}
			m := entity.ForecastMethods[idx%len(entity.ForecastMethods)]
			res, err := inventory.Forecast("a", recordsFrom("a", testStart, qty...), inventory.ForecastParams{
				HistoryDays: historyDays, ForecastDays: 7, Method: m,
			})
			if err != nil {
				return false
			}
			return res.Confidence >= 0.1 && res.Confidence <= 1 &&
				!res.DailyRate.IsNegative() && !res.PredictedConsumption.IsNegative()
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
		gen.IntRange(1, 90),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
