package provision

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// HistoryPoint versión liviana del desglose para graficar la tendencia.
type HistoryPoint struct {
	Year               int
	Month              int
	Period             string // "YYYY-MM"
	IncomeCOP          decimal.Decimal
	ExpensesCOP        decimal.Decimal
	TotalProvision     decimal.Decimal
	CashAfterProvision decimal.Decimal
	RiskLevel          entity.RiskLevel
}

// TrendSummary estadísticas de la serie histórica.
type TrendSummary struct {
	Months            int
	AverageProvision  decimal.Decimal
	AverageCash       decimal.Decimal
	CashSlopePerMonth decimal.Decimal // pendiente por mínimos cuadrados de la caja residual
	RiskCounts        map[entity.RiskLevel]int
}

// BuildHistory aplica Compute a los meses de la ventana móvil que termina en el mes de now.
//
// Se conservan los registros con período >= actual-(window-1) y <= actual, en orden
// ascendente. Los meses ausentes no se rellenan. Si la calculadora rechaza un
// registro (perfil no soportado) ese registro se omite sin fallar la serie.
func BuildHistory(profile entity.TaxProfile, inputs []entity.MonthlyInput, windowMonths int, now time.Time) ([]HistoryPoint, error) {
	if err := ValidateWindow(windowMonths); err != nil {
		return nil, err
	}
	current := entity.PeriodNumber(entity.CurrentPeriod(now))
	from := current - (windowMonths - 1)

	inWindow := make([]entity.MonthlyInput, 0, len(inputs))
	for _, in := range inputs {
		p := in.Period()
		if p >= from && p <= current {
			inWindow = append(inWindow, in)
		}
	}
	sort.SliceStable(inWindow, func(i, j int) bool {
		return inWindow[i].Period() < inWindow[j].Period()
	})

	points := make([]HistoryPoint, 0, len(inWindow))
	for _, in := range inWindow {
		b, err := Compute(profile, in)
		if err != nil {
			continue
		}
		points = append(points, HistoryPoint{
			Year:               in.Year,
			Month:              in.Month,
			Period:             fmt.Sprintf("%04d-%02d", in.Year, in.Month),
			IncomeCOP:          in.IncomeCOP,
			ExpensesCOP:        in.DeductibleExpensesCOP,
			TotalProvision:     b.TotalProvision,
			CashAfterProvision: b.CashAfterProvision,
			RiskLevel:          b.RiskLevel,
		})
	}
	return points, nil
}

// SummarizeHistory resume la serie: promedios, pendiente de la caja y conteo por riesgo.
// La pendiente usa el número de período como eje x, así los meses faltantes no la distorsionan.
func SummarizeHistory(points []HistoryPoint) TrendSummary {
	summary := TrendSummary{
		Months:            len(points),
		AverageProvision:  decimal.Zero,
		AverageCash:       decimal.Zero,
		CashSlopePerMonth: decimal.Zero,
		RiskCounts: map[entity.RiskLevel]int{
			entity.RiskHigh: 0, entity.RiskMedium: 0, entity.RiskLow: 0,
		},
	}
	if len(points) == 0 {
		return summary
	}

	xs := make([]float64, len(points))
	cash := make([]float64, len(points))
	provision := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(entity.PeriodNumber(p.Year, p.Month))
		cash[i] = p.CashAfterProvision.InexactFloat64()
		provision[i] = p.TotalProvision.InexactFloat64()
		summary.RiskCounts[p.RiskLevel]++
	}

	summary.AverageProvision = decimal.NewFromFloat(stat.Mean(provision, nil)).Round(2)
	summary.AverageCash = decimal.NewFromFloat(stat.Mean(cash, nil)).Round(2)
	if len(points) > 1 {
		_, slope := stat.LinearRegression(xs, cash, nil, false)
		summary.CashSlopePerMonth = decimal.NewFromFloat(slope).Round(2)
	}
	return summary
}
