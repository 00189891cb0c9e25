package inventory

import (
	"sort"
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// DailySeries convierte el historial en una serie diaria densa, ordenada por fecha ascendente.
// Los días faltantes entre el primer y el último registro se rellenan con cero y los registros
// del mismo día se suman.
// Devuelve la serie y la fecha (UTC, 00:00) de su primer elemento.
func DailySeries(records []entity.ConsumptionRecord) ([]float64, time.Time) {
	return DailySeriesThrough(records, time.Time{})
}

// DailySeriesThrough igual que DailySeries, pero la serie se extiende con ceros hasta through
// (inclusive) cuando el último registro es anterior. Un through cero no extiende nada; un
// registro posterior a through no se descarta.
func DailySeriesThrough(records []entity.ConsumptionRecord, through time.Time) ([]float64, time.Time) {
	if len(records) == 0 {
		return nil, time.Time{}
	}
	sorted := make([]entity.ConsumptionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first := Day(sorted[0].Date)
	last := Day(sorted[len(sorted)-1].Date)
	if !through.IsZero() && Day(through).After(last) {
		last = Day(through)
	}
	n := daysBetween(first, last) + 1

	series := make([]float64, n)
	for _, r := range sorted {
		idx := daysBetween(first, Day(r.Date))
		q := r.QuantityConsumed.InexactFloat64()
		if q < 0 {
			q = 0
		}
		series[idx] += q
	}
	return series, first
}

// Day trunca t a la medianoche UTC de su fecha de calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil días de calendario entre from y to (negativo si to es anterior).
func DaysUntil(from, to time.Time) int {
	return daysBetween(Day(from), Day(to))
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// tail devuelve los últimos n elementos de s (todo s si n ≥ len(s)).
func tail(s []float64, n int) []float64 {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
