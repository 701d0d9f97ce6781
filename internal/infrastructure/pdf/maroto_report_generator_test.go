package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
)

func TestFormatCOP(t *testing.T) {
	cases := map[string]string{
		"0":           "$0",
		"950":         "$950",
		"25000":       "$25.000",
		"1150000":     "$1.150.000",
		"-500000":     "-$500.000",
		"1250000.6":   "$1.250.001",
		"-0.2":        "$0",
		"-1234567.89": "-$1.234.568",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatCOP(decimal.RequireFromString(in)), in)
	}
}

func TestGenerate_ReporteCompleto(t *testing.T) {
	d := decimal.NewFromInt
	report := &dto.ProvisionReportDTO{
		UserName:    "Ana",
		UserEmail:   "ana@example.co",
		GeneratedAt: "2026-03-15 10:00",
		Estimate: dto.EstimateResponse{
			Ready:  true,
			Period: "2026-03",
			Profile: &dto.ProfileSummaryDTO{
				Regimen: "simple", VATResponsible: "yes", ProvisionStyle: "balanced",
				BaseRate: decimal.RequireFromString("0.05"), Multiplier: d(1),
			},
			Breakdown: &dto.BreakdownDTO{
				IVAProvision: d(950_000), Base: d(4_000_000), RentaProvision: d(200_000),
				TotalProvision: d(1_150_000), CashAfterProvision: d(2_850_000), RiskLevel: "low",
			},
		},
		History: dto.HistoryResponse{
			Months: 6,
			Points: []dto.HistoryPointDTO{
				{Period: "2026-02", IncomeCOP: d(2_000_000), ExpensesCOP: d(2_500_000), CashAfterProvision: d(-500_000), RiskLevel: "high"},
				{Period: "2026-03", IncomeCOP: d(5_000_000), ExpensesCOP: d(1_000_000), TotalProvision: d(1_150_000), CashAfterProvision: d(2_850_000), RiskLevel: "low"},
			},
			Summary: dto.TrendSummaryDTO{Months: 2, RiskCounts: map[string]int{"high": 1, "medium": 0, "low": 1}},
		},
	}

	out, err := NewMarotoReportGenerator().Generate(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_SinDatos(t *testing.T) {
	out, err := NewMarotoReportGenerator().Generate(&dto.ProvisionReportDTO{
		Estimate: dto.EstimateResponse{Period: "2026-03", Reason: dto.NotReadyProfileMissing},
		History:  dto.HistoryResponse{Months: 6},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = NewMarotoReportGenerator().Generate(nil)
	assert.Error(t, err)
}
