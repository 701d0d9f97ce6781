package provision

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// mediumRiskShare fracción del ingreso por debajo de la cual la caja residual es riesgo medio.
var mediumRiskShare = decimal.RequireFromString("0.15")

// ClassifyRisk asigna el nivel de riesgo; la primera regla que aplica gana:
//  1. caja < 0               → high
//  2. caja < 15% del ingreso → medium
//  3. en otro caso           → low
//
// Un mes todo en cero queda en low.
func ClassifyRisk(cashAfterProvision, income decimal.Decimal) entity.RiskLevel {
	if cashAfterProvision.IsNegative() {
		return entity.RiskHigh
	}
	if cashAfterProvision.LessThan(income.Mul(mediumRiskShare)) {
		return entity.RiskMedium
	}
	return entity.RiskLow
}
