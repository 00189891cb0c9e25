package inventory

import (
	"time"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/domain/entity"
)

// Tipos de corrida, usados como etiqueta de métricas y de logs.
const (
	KindRestock      = "restock"
	KindExpiration   = "expiration"
	KindOptimization = "optimization"
	KindForecast     = "forecast"
	KindReport       = "report"
)

// EngineMetrics puerto de observabilidad del motor (implementado con prometheus en infraestructura).
type EngineMetrics interface {
	ObserveRun(kind string, d time.Duration)
	AlertEmitted(kind string, level entity.AlertLevel)
	ItemFailed(kind, code string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(string, time.Duration)       {}
func (noopMetrics) AlertEmitted(string, entity.AlertLevel) {}
func (noopMetrics) ItemFailed(string, string)              {}

// ReportPDFGenerator genera el PDF del reporte de inventario (puerto hacia infraestructura).
type ReportPDFGenerator interface {
	GenerateReportPDF(report *dto.InventoryReportDTO) ([]byte, error)
}
