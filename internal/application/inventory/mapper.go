package inventory

import (
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

func toRestockAlertDTO(a entity.RestockAlert, firstSeen *bool) dto.RestockAlertDTO {
	return dto.RestockAlertDTO{
		AlertID:               a.AlertID,
		ItemID:                a.ItemID,
		ItemName:              a.ItemName,
		Category:              a.Category,
		Unit:                  a.Unit,
		Status:                string(a.Status),
		AlertLevel:            a.Level.String(),
		Escalated:             a.Escalated,
		Reason:                a.Reason,
		CurrentStock:          a.CurrentStock,
		RecommendedQuantity:   a.RecommendedQuantity,
		EstimatedOrderCost:    a.EstimatedOrderCost,
		DailyRate:             a.DailyRate,
		ForecastConfidence:    a.ForecastConfidence,
		DaysUntilStockout:     a.DaysUntilStockout,
		EstimatedStockoutDate: a.EstimatedStockoutDate,
		LeadTimeDays:          a.LeadTimeDays,
		SupplierID:            a.SupplierID,
		FirstSeen:             firstSeen,
		CreatedAt:             a.CreatedAt,
	}
}

func toExpirationAlertDTO(a entity.ExpirationAlert, firstSeen *bool) dto.ExpirationAlertDTO {
	return dto.ExpirationAlertDTO{
		AlertID:             a.AlertID,
		ItemID:              a.ItemID,
		ItemName:            a.ItemName,
		Category:            a.Category,
		Unit:                a.Unit,
		AlertLevel:          a.Level.String(),
		RecommendedAction:   string(a.RecommendedAction),
		Reason:              a.Reason,
		CurrentStock:        a.CurrentStock,
		StockValue:          a.StockValue,
		ExpirationDate:      a.ExpirationDate,
		DaysUntilExpiration: a.DaysUntilExpiration,
		Location:            a.Location,
		FirstSeen:           firstSeen,
		CreatedAt:           a.CreatedAt,
	}
}

func toForecastDTO(r entity.ForecastResult, forecastDays int) dto.ForecastDTO {
	return dto.ForecastDTO{
		ItemID:               r.ItemID,
		Method:               string(r.Method),
		Fallback:             r.Fallback,
		PredictedConsumption: r.PredictedConsumption,
		DailyRate:            r.DailyRate,
		Confidence:           r.Confidence,
		DaysUntilStockout:    r.DaysUntilStockout,
		HistoryDaysUsed:      r.HistoryDaysUsed,
		ForecastDays:         forecastDays,
	}
}

func toLevelsDTO(l entity.StockLevels) dto.StockLevelsDTO {
	return dto.StockLevelsDTO{Safe: l.Safe, Min: l.Min, Max: l.Max}
}

// ToOptimizationDTO forma JSON del resultado del optimizador.
func ToOptimizationDTO(r entity.StockOptimizationResult) dto.OptimizationDTO {
	return dto.OptimizationDTO{
		ItemID:             r.ItemID,
		CurrentLevels:      toLevelsDTO(r.CurrentLevels),
		RecommendedLevels:  toLevelsDTO(r.RecommendedLevels),
		SafetyStock:        r.SafetyStock,
		MeanDailyUsage:     r.MeanDailyUsage,
		StdDevDailyUsage:   r.StdDevDailyUsage,
		ZScore:             r.ZScore,
		LeadTimeDays:       r.LeadTimeDays,
		AnalysisWindowDays: r.AnalysisWindowDays,
		ServiceLevel:       r.ServiceLevel,
	}
}
