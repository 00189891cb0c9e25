// Package pdf exporta el reporte de inventario de una tienda a PDF (botón de descarga del dashboard).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + categoría   │  Fecha de generación         │
//	│  RESUMEN: ítems / valor total / conteo por estado            │
//	│  TABLA: Categoría | Ítems | Valor | Bajo | Crítico | Agotado │
//	│  TABLA: Alertas de reposición (nivel, ítem, cantidad, quiebre)│
//	│  TABLA: Alertas de caducidad (nivel, ítem, días, acción)     │
//	│  FOOTER: fallos por ítem                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/dto"
	appinventory "github.com/hnrm110901-cell/zhilian-os-sub005/internal/application/inventory"
)

var _ appinventory.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 170, Green: 20, Blue: 20}
	colorUrgent   = &props.Color{Red: 200, Green: 100, Blue: 0}
)

// MarotoReportGenerator implementa ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(report *dto.InventoryReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario "+report.StoreID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("POR CATEGORÍA"))
	m.AddRows(tableHeader([]string{"Categoría", "Ítems", "Valor", "Bajo", "Crítico", "Agotado"}, []int{4, 1, 3, 1, 2, 1}))
	for _, cs := range report.Categories {
		m.AddRows(row.New(6).Add(
			cell(nonEmpty(cs.Category, "—"), 4, align.Left, nil),
			cell(fmt.Sprint(cs.ItemCount), 1, align.Center, nil),
			cell(formatMinor(cs.TotalValue), 3, align.Right, nil),
			cell(fmt.Sprint(cs.StatusCounts["LOW"]), 1, align.Center, nil),
			cell(fmt.Sprint(cs.StatusCounts["CRITICAL"]), 2, align.Center, nil),
			cell(fmt.Sprint(cs.StatusCounts["OUT_OF_STOCK"]), 1, align.Center, nil),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("ALERTAS DE REPOSICIÓN (%d)", len(report.RestockAlerts))))
	m.AddRows(tableHeader([]string{"Nivel", "Ítem", "Stock", "Pedir", "Costo", "Quiebre"}, []int{2, 4, 1, 2, 2, 1}))
	for _, a := range report.RestockAlerts {
		stockout := "—"
		if a.DaysUntilStockout != nil {
			stockout = fmt.Sprintf("%d d", *a.DaysUntilStockout)
		}
		m.AddRows(row.New(6).Add(
			cell(a.AlertLevel, 2, align.Left, levelColor(a.AlertLevel)),
			cell(nonEmpty(a.ItemName, a.ItemID), 4, align.Left, nil),
			cell(a.CurrentStock.StringFixed(1), 1, align.Right, nil),
			cell(a.RecommendedQuantity.StringFixed(1)+" "+a.Unit, 2, align.Right, nil),
			cell(formatMinor(a.EstimatedOrderCost), 2, align.Right, nil),
			cell(stockout, 1, align.Center, nil),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("ALERTAS DE CADUCIDAD (%d)", len(report.ExpirationAlerts))))
	m.AddRows(tableHeader([]string{"Nivel", "Ítem", "Días", "Valor en riesgo", "Acción"}, []int{2, 4, 1, 2, 3}))
	for _, a := range report.ExpirationAlerts {
		m.AddRows(row.New(6).Add(
			cell(a.AlertLevel, 2, align.Left, levelColor(a.AlertLevel)),
			cell(nonEmpty(a.ItemName, a.ItemID), 4, align.Left, nil),
			cell(fmt.Sprint(a.DaysUntilExpiration), 1, align.Center, nil),
			cell(formatMinor(a.StockValue), 2, align.Right, nil),
			cell(actionLabel(a.RecommendedAction), 3, align.Left, nil),
		))
	}

	if len(report.Failures) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitle(fmt.Sprintf("ÍTEMS NO EVALUADOS (%d)", len(report.Failures))))
		for _, f := range report.Failures {
			m.AddRows(row.New(5).Add(col.New(12).Add(
				text.New(f.ItemID+" · "+f.Code, props.Text{Size: 7, Color: colorGray, Left: 1}),
			)))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.InventoryReportDTO) core.Row {
	scope := "Todas las categorías"
	if r.Category != "" {
		scope = "Categoría: " + r.Category
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Tienda "+r.StoreID+"  ·  "+scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *dto.InventoryReportDTO) core.Row {
	kv := func(label, value string, size int) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return row.New(14).Add(
		kv("Ítems", fmt.Sprint(r.TotalItems), 2),
		kv("Valor total", formatMinor(r.TotalValue), 3),
		kv("Suficiente", fmt.Sprint(r.StatusCounts["SUFFICIENT"]), 2),
		kv("Bajo", fmt.Sprint(r.StatusCounts["LOW"]), 1),
		kv("Crítico", fmt.Sprint(r.StatusCounts["CRITICAL"]), 2),
		kv("Agotado", fmt.Sprint(r.StatusCounts["OUT_OF_STOCK"]), 2),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func cell(s string, size int, a align.Type, color *props.Color) core.Col {
	p := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
	if color != nil {
		p.Color = color
		p.Style = fontstyle.Bold
	}
	return col.New(size).Add(text.New(s, p))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func levelColor(level string) *props.Color {
	switch level {
	case "CRITICAL":
		return colorCritical
	case "URGENT":
		return colorUrgent
	default:
		return nil
	}
}

func actionLabel(action string) string {
	switch action {
	case "promotion":
		return "Promoción"
	case "internal_consumption":
		return "Consumo interno"
	case "delist":
		return "Retirar / dar de baja"
	default:
		return action
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMinor convierte unidades menores a texto con separador de miles: 1234567 → "12.345,67".
func formatMinor(v decimal.Decimal) string {
	s := v.Div(decimal.NewFromInt(100)).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := formatThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
