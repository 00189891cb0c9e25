package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultDecay = 0.9

	movingAverageMaxDays = 7
	seasonalMinDays      = 14 // dos semanas completas

	baselineMovingAverage   = 0.6
	baselineWeightedAverage = 0.7
	baselineRegression      = 0.75
	floorRegression         = 0.5
	baselineSeasonal        = 0.8
	seasonalFallbackConf    = 0.4
	minConfidence           = 0.1
)

// ForecastParams parámetros de un pronóstico.
type ForecastParams struct {
	HistoryDays  int // ventana de historial (≥ 1)
	ForecastDays int // horizonte (≥ 1)
	Method       entity.ForecastMethod
	Decay        float64 // solo weighted_average; 0 = DefaultDecay
	CurrentStock decimal.Decimal
	// Through último día evaluado; los días sin registros hasta él cuentan como consumo cero.
	Through time.Time
}

type methodResult struct {
	method    entity.ForecastMethod
	dailyRate float64
	predicted float64 // solo si el método ya suma el horizonte (seasonal)
	summed    bool
	baseline  float64
	fallback  bool
}

// Forecast estima el consumo futuro de un ítem a partir de su historial.
// Devuelve *domain.InsufficientDataError si no hay ningún registro.
func Forecast(itemID string, records []entity.ConsumptionRecord, p ForecastParams) (entity.ForecastResult, error) {
	if p.HistoryDays < 1 || p.ForecastDays < 1 {
		return entity.ForecastResult{}, fmt.Errorf("%w: history_days y forecast_days deben ser ≥ 1", domain.ErrInvalidInput)
	}
	decay := p.Decay
	if decay == 0 {
		decay = DefaultDecay
	}
	if decay < 0 || decay > 1 {
		return entity.ForecastResult{}, fmt.Errorf("%w: decay %.3f fuera de (0, 1]", domain.ErrInvalidInput, decay)
	}
	if len(records) == 0 {
		return entity.ForecastResult{}, &domain.InsufficientDataError{ItemID: itemID}
	}

	series, first := DailySeriesThrough(records, p.Through)
	window := tail(series, p.HistoryDays)
	windowStart := first.AddDate(0, 0, len(series)-len(window))

	var res methodResult
	switch p.Method {
	case entity.MethodMovingAverage:
		res = movingAverage(window, p.HistoryDays)
	case entity.MethodWeightedAverage, "":
		res = weightedAverage(window, decay)
	case entity.MethodLinearRegression:
		res = linearRegression(window)
	case entity.MethodSeasonal:
		res = seasonal(window, windowStart, p.ForecastDays, p.HistoryDays)
	default:
		return entity.ForecastResult{}, fmt.Errorf("%w: método %q", domain.ErrInvalidInput, p.Method)
	}

	confidence := seasonalFallbackConf
	if !res.fallback {
		coverage := math.Min(1, float64(len(window))/float64(p.HistoryDays))
		confidence = math.Max(minConfidence, res.baseline*coverage)
	}

	predicted := res.dailyRate * float64(p.ForecastDays)
	if res.summed {
		predicted = res.predicted
	}

	return entity.ForecastResult{
		ItemID:               itemID,
		Method:               res.method,
		PredictedConsumption: decimal.NewFromFloat(predicted).Round(4),
		DailyRate:            decimal.NewFromFloat(res.dailyRate).Round(4),
		Confidence:           math.Round(confidence*1000) / 1000,
		DaysUntilStockout:    DaysUntilStockout(p.CurrentStock, res.dailyRate),
		HistoryDaysUsed:      len(window),
		Fallback:             res.fallback,
	}, nil
}

// DaysUntilStockout floor(stock / rate); nil cuando rate ≤ 0. Stock agotado → 0.
func DaysUntilStockout(current decimal.Decimal, dailyRate float64) *int {
	if dailyRate <= 0 || math.IsNaN(dailyRate) {
		return nil
	}
	days := 0
	if stock := current.InexactFloat64(); stock > 0 {
		days = int(math.Floor(stock / dailyRate))
	}
	return &days
}

func movingAverage(window []float64, historyDays int) methodResult {
	n := movingAverageMaxDays
	if historyDays < n {
		n = historyDays
	}
	return methodResult{
		method:    entity.MethodMovingAverage,
		dailyRate: stat.Mean(tail(window, n), nil),
		baseline:  baselineMovingAverage,
	}
}

// weightedAverage: w_i = decay^(n-1-i), el día más reciente pesa 1.
func weightedAverage(window []float64, decay float64) methodResult {
	n := len(window)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = math.Pow(decay, float64(n-1-i))
	}
	return methodResult{
		method:    entity.MethodWeightedAverage,
		dailyRate: stat.Mean(window, weights),
		baseline:  baselineWeightedAverage,
	}
}

// linearRegression ajusta MCO cantidad ~ índice de día y evalúa en el día siguiente.
// La confianza baja de 0.75 hacia 0.5 a medida que crece el error residual relativo a la media.
func linearRegression(window []float64) methodResult {
	n := len(window)
	mean := stat.Mean(window, nil)
	if n < 2 {
		return methodResult{method: entity.MethodLinearRegression, dailyRate: mean, baseline: floorRegression}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, window, nil, false)

	var rss float64
	for i, y := range window {
		r := y - (alpha + beta*xs[i])
		rss += r * r
	}
	relErr := 0.0
	if mean > 0 {
		relErr = math.Sqrt(rss/float64(n)) / mean
	} else if rss > 0 {
		relErr = math.Inf(1)
	}
	baseline := floorRegression + (baselineRegression-floorRegression)/(1+relErr)

	rate := alpha + beta*float64(n)
	if rate < 0 {
		rate = 0
	}
	return methodResult{method: entity.MethodLinearRegression, dailyRate: rate, baseline: baseline}
}

// seasonal promedia por día de la semana y suma el horizonte día a día.
// Con menos de dos semanas degrada a media móvil con confianza fija.
func seasonal(window []float64, windowStart time.Time, forecastDays, historyDays int) methodResult {
	if len(window) < seasonalMinDays {
		res := movingAverage(window, historyDays)
		res.fallback = true
		return res
	}

	var sums, counts [7]float64
	for i, q := range window {
		wd := windowStart.AddDate(0, 0, i).Weekday()
		sums[wd] += q
		counts[wd]++
	}

	horizonStart := windowStart.AddDate(0, 0, len(window))
	var predicted float64
	for d := 0; d < forecastDays; d++ {
		wd := horizonStart.AddDate(0, 0, d).Weekday()
		if counts[wd] > 0 {
			predicted += sums[wd] / counts[wd]
		}
	}
	return methodResult{
		method:    entity.MethodSeasonal,
		dailyRate: predicted / float64(forecastDays),
		predicted: predicted,
		summed:    true,
		baseline:  baselineSeasonal,
	}
}
