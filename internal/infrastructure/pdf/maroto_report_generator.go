// Package pdf genera el reporte de provisión mensual en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Provisiona + usuario  │  Período + fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTIMACIÓN DEL MES: perfil + desglose (o motivo faltante)  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTÓRICO: Período | Ingresos | Gastos | Provisión | Caja  │
//	│  RESUMEN: promedios, tendencia de caja, meses por riesgo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: aviso de estimación                                │
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

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
)

// Verificar en tiempo de compilación que MarotoReportGenerator implementa ReportPDFGenerator.
var _ ports.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHigh    = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorMedium  = &props.Color{Red: 200, Green: 120, Blue: 0}
	colorLow     = &props.Color{Red: 20, Green: 120, Blue: 60}
)

var riskLabels = map[string]string{"high": "Alto", "medium": "Medio", "low": "Bajo"}

var notReadyLabels = map[string]string{
	dto.NotReadyProfileMissing:      "Falta registrar el perfil tributario.",
	dto.NotReadyMonthlyInputMissing: "Falta registrar los datos financieros del mes.",
	dto.NotReadyUnsupportedProfile:  "El cálculo solo está disponible para personas naturales.",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) Generate(report *dto.ProvisionReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de provisión "+report.Estimate.Period, true).
		WithAuthor("Provisiona", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(estimateRows(report.Estimate)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(historyRows(report.History)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.ProvisionReportDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("PROVISIONA", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.TrimSpace(nonEmpty(r.UserName, "")+"  "+r.UserEmail), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE PROVISIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Estimate.Period, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+r.GeneratedAt, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func estimateRows(est dto.EstimateResponse) []core.Row {
	rows := []core.Row{sectionTitle("ESTIMACIÓN DEL MES")}
	if !est.Ready || est.Breakdown == nil {
		return append(rows, row.New(10).Add(col.New(12).Add(
			text.New(nonEmpty(notReadyLabels[est.Reason], est.Message), props.Text{Size: 9, Top: 2, Color: colorGray}),
		)))
	}

	if p := est.Profile; p != nil {
		rows = append(rows, row.New(7).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Régimen: %s   |   Responsable de IVA: %s   |   Estilo: %s   |   Tarifa: %s%%   |   Multiplicador: %s",
				p.Regimen, p.VATResponsible, p.ProvisionStyle,
				p.BaseRate.Shift(2).String(), p.Multiplier.StringFixed(2),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}

	b := est.Breakdown
	lines := [][2]string{
		{"Base gravable", formatCOP(b.Base)},
		{"Provisión de renta", formatCOP(b.RentaProvision)},
		{"Provisión de IVA", formatCOP(b.IVAProvision)},
		{"TOTAL A PROVISIONAR", formatCOP(b.TotalProvision)},
		{"Caja después de provisionar", formatCOP(b.CashAfterProvision)},
	}
	for i, l := range lines {
		style := fontstyle.Normal
		color := &props.Color{}
		if i == 3 {
			style, color = fontstyle.Bold, colorPrimary
		}
		rows = append(rows, row.New(6).Add(
			col.New(3),
			col.New(4).Add(text.New(l[0]+":", props.Text{Style: style, Size: 9, Align: align.Right, Right: 2, Color: color})),
			col.New(3).Add(text.New(l[1], props.Text{Style: style, Size: 9, Align: align.Right, Right: 1, Color: color})),
			col.New(2),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(3),
		col.New(4).Add(text.New("Riesgo de caja:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
		col.New(3).Add(text.New(riskLabel(b.RiskLevel), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: riskColor(b.RiskLevel)})),
		col.New(2),
	))
	return rows
}

func historyRows(h dto.HistoryResponse) []core.Row {
	rows := []core.Row{sectionTitle(fmt.Sprintf("HISTÓRICO (últimos %d meses)", h.Months))}
	if len(h.Points) == 0 {
		return append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin meses registrados en la ventana.", props.Text{Size: 9, Top: 1, Color: colorGray}),
		)))
	}

	head := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Color: colorPrimary}))
	}
	rows = append(rows, row.New(7).Add(
		head("Período", 2, align.Left),
		head("Ingresos", 2, align.Right),
		head("Gastos", 2, align.Right),
		head("Provisión", 2, align.Right),
		head("Caja", 2, align.Right),
		head("Riesgo", 2, align.Center),
	))
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1}))
	}
	for _, p := range h.Points {
		rows = append(rows, row.New(6).Add(
			cell(p.Period, 2, align.Left),
			cell(formatCOP(p.IncomeCOP), 2, align.Right),
			cell(formatCOP(p.ExpensesCOP), 2, align.Right),
			cell(formatCOP(p.TotalProvision), 2, align.Right),
			cell(formatCOP(p.CashAfterProvision), 2, align.Right),
			col.New(2).Add(text.New(riskLabel(p.RiskLevel), props.Text{Size: 8, Align: align.Center, Top: 1, Color: riskColor(p.RiskLevel)})),
		))
	}

	s := h.Summary
	rows = append(rows, row.New(4), row.New(14).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Provisión promedio: %s   |   Caja promedio: %s   |   Tendencia de caja: %s por mes",
			formatCOP(s.AverageProvision), formatCOP(s.AverageCash), formatCOP(s.CashSlopePerMonth),
		), props.Text{Size: 8, Top: 1}),
		text.New(fmt.Sprintf("Meses por riesgo: alto %d, medio %d, bajo %d",
			s.RiskCounts["high"], s.RiskCounts["medium"], s.RiskCounts["low"],
		), props.Text{Size: 8, Top: 7, Color: colorGray}),
	)))
	return rows
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Las cifras son una estimación para apartar dinero mes a mes y no constituyen "+
				"una liquidación oficial de impuestos. Consulte a su contador para la declaración.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func riskLabel(level string) string {
	return nonEmpty(riskLabels[level], level)
}

func riskColor(level string) *props.Color {
	switch level {
	case "high":
		return colorHigh
	case "medium":
		return colorMedium
	default:
		return colorLow
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatCOP redondea a pesos y formatea con puntos de miles. Ej: -1250000.4 → "-$1.250.000".
func formatCOP(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if s == "0" {
		sign = ""
	}
	return sign + "$" + formatMoney(s)
}

// formatMoney inserta puntos de miles en un string de dígitos.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
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
