package provision

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// Tarifas base de renta por régimen.
var baseRates = map[entity.Regimen]decimal.Decimal{
	entity.RegimenSimple:    decimal.RequireFromString("0.05"),
	entity.RegimenOrdinario: decimal.RequireFromString("0.10"),
	entity.RegimenUnknown:   decimal.RequireFromString("0.08"),
}

// Multiplicadores por estilo de provisión.
var styleMultipliers = map[entity.ProvisionStyle]decimal.Decimal{
	entity.StyleConservative: decimal.RequireFromString("1.25"),
	entity.StyleBalanced:     decimal.RequireFromString("1.00"),
	entity.StyleAggressive:   decimal.RequireFromString("0.75"),
}

// Breakdown resultado de la calculadora para un (perfil, mes). No se persiste aquí.
type Breakdown struct {
	IVAProvision       decimal.Decimal
	Base               decimal.Decimal
	RentaProvision     decimal.Decimal
	TotalProvision     decimal.Decimal
	CashAfterProvision decimal.Decimal
	RiskLevel          entity.RiskLevel
}

// BaseRate devuelve la tarifa de renta del régimen. Un valor fuera de catálogo usa la de unknown.
func BaseRate(r entity.Regimen) decimal.Decimal {
	if rate, ok := baseRates[r]; ok {
		return rate
	}
	return baseRates[entity.RegimenUnknown]
}

// StyleMultiplier devuelve el factor del estilo de provisión. Fuera de catálogo usa balanced.
func StyleMultiplier(s entity.ProvisionStyle) decimal.Decimal {
	if m, ok := styleMultipliers[s]; ok {
		return m
	}
	return styleMultipliers[entity.StyleBalanced]
}

// Compute calcula cuánto apartar para impuestos en el mes.
//
//	iva   = vat_collected si vat_responsible = yes, si no 0
//	base  = max(income - expenses, 0)
//	renta = base * tarifa(régimen) * multiplicador(estilo)
//	total = renta + iva
//	caja  = income - expenses - total   (puede ser negativa)
//
// Solo falla si el perfil no es de persona natural. Ambos registros deben
// venir normalizados por NormalizeProfile / NormalizeMonthlyInput.
func Compute(profile entity.TaxProfile, in entity.MonthlyInput) (Breakdown, error) {
	if profile.PersonaType != entity.PersonaNatural {
		return Breakdown{}, &UnsupportedProfileError{PersonaType: string(profile.PersonaType)}
	}

	iva := decimal.Zero
	if profile.VATResponsible == entity.VATYes {
		iva = in.VATCollectedCOP
	}

	net := in.IncomeCOP.Sub(in.DeductibleExpensesCOP)
	base := decimal.Max(net, decimal.Zero)
	renta := base.Mul(BaseRate(profile.Regimen)).Mul(StyleMultiplier(profile.ProvisionStyle))
	total := renta.Add(iva)
	cash := net.Sub(total)

	return Breakdown{
		IVAProvision:       iva,
		Base:               base,
		RentaProvision:     renta,
		TotalProvision:     total,
		CashAfterProvision: cash,
		RiskLevel:          ClassifyRisk(cash, in.IncomeCOP),
	}, nil
}
