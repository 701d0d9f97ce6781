package usecase

import (
	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
)

func toProfileResponse(p *entity.TaxProfile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		PersonaType:    string(p.PersonaType),
		Regimen:        string(p.Regimen),
		VATResponsible: string(p.VATResponsible),
		ProvisionStyle: string(p.ProvisionStyle),
		Municipality:   p.Municipality,
		NIT:            p.NIT,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toMonthlyInputResponse(m *entity.MonthlyInput) *dto.MonthlyInputResponse {
	if m == nil {
		return nil
	}
	return &dto.MonthlyInputResponse{
		Year:                  m.Year,
		Month:                 m.Month,
		Period:                m.Label(),
		IncomeCOP:             m.IncomeCOP,
		DeductibleExpensesCOP: m.DeductibleExpensesCOP,
		WithholdingsCOP:       m.WithholdingsCOP,
		VATCollectedCOP:       m.VATCollectedCOP,
		Notes:                 m.Notes,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toBreakdownDTO(b provision.Breakdown) *dto.BreakdownDTO {
	return &dto.BreakdownDTO{
		IVAProvision:       b.IVAProvision,
		Base:               b.Base,
		RentaProvision:     b.RentaProvision,
		TotalProvision:     b.TotalProvision,
		CashAfterProvision: b.CashAfterProvision,
		RiskLevel:          string(b.RiskLevel),
	}
}

func toProfileSummary(p *entity.TaxProfile) *dto.ProfileSummaryDTO {
	return &dto.ProfileSummaryDTO{
		Regimen:        string(p.Regimen),
		VATResponsible: string(p.VATResponsible),
		ProvisionStyle: string(p.ProvisionStyle),
		BaseRate:       provision.BaseRate(p.Regimen),
		Multiplier:     provision.StyleMultiplier(p.ProvisionStyle),
	}
}

func toHistoryResponse(months int, points []provision.HistoryPoint) *dto.HistoryResponse {
	out := &dto.HistoryResponse{Months: months, Points: make([]dto.HistoryPointDTO, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, dto.HistoryPointDTO{
			Year:               p.Year,
			Month:              p.Month,
			Period:             p.Period,
			IncomeCOP:          p.IncomeCOP,
			ExpensesCOP:        p.ExpensesCOP,
			TotalProvision:     p.TotalProvision,
			CashAfterProvision: p.CashAfterProvision,
			RiskLevel:          string(p.RiskLevel),
		})
	}
	s := provision.SummarizeHistory(points)
	out.Summary = dto.TrendSummaryDTO{
		Months:            s.Months,
		AverageProvision:  s.AverageProvision,
		AverageCash:       s.AverageCash,
		CashSlopePerMonth: s.CashSlopePerMonth,
		RiskCounts:        make(map[string]int, len(s.RiskCounts)),
	}
	for level, n := range s.RiskCounts {
		out.Summary.RiskCounts[string(level)] = n
	}
	return out
}
