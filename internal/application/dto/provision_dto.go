package dto

import "github.com/shopspring/decimal"

// Motivos por los que no se puede estimar la provisión del mes.
const (
	NotReadyProfileMissing      = "PROFILE_MISSING"
	NotReadyMonthlyInputMissing = "MONTHLY_INPUT_MISSING"
	NotReadyUnsupportedProfile  = "UNSUPPORTED_PROFILE"
)

// BreakdownDTO desglose de la provisión de un mes.
type BreakdownDTO struct {
	IVAProvision       decimal.Decimal `json:"iva_provision"`
	Base               decimal.Decimal `json:"base"`
	RentaProvision     decimal.Decimal `json:"renta_provision"`
	TotalProvision     decimal.Decimal `json:"total_provision"`
	CashAfterProvision decimal.Decimal `json:"cash_after_provision"`
	RiskLevel          string          `json:"risk_level"`
}

// ProfileSummaryDTO parámetros del perfil que intervienen en el cálculo.
type ProfileSummaryDTO struct {
	Regimen        string          `json:"regimen"`
	VATResponsible string          `json:"vat_responsible"`
	ProvisionStyle string          `json:"provision_style"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
}

// EstimateResponse estimación del mes en curso. Si Ready es false, Reason explica qué falta.
type EstimateResponse struct {
	Ready     bool                  `json:"ready"`
	Period    string                `json:"period"`
	Reason    string                `json:"reason,omitempty"`
	Message   string                `json:"message,omitempty"`
	Profile   *ProfileSummaryDTO    `json:"profile,omitempty"`
	Input     *MonthlyInputResponse `json:"input,omitempty"`
	Breakdown *BreakdownDTO         `json:"breakdown,omitempty"`
}

// HistoryPointDTO un mes de la serie histórica.
type HistoryPointDTO struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	Period             string          `json:"period"`
	IncomeCOP          decimal.Decimal `json:"income_cop"`
	ExpensesCOP        decimal.Decimal `json:"expenses_cop"`
	TotalProvision     decimal.Decimal `json:"total_provision"`
	CashAfterProvision decimal.Decimal `json:"cash_after_provision"`
	RiskLevel          string          `json:"risk_level"`
}

// TrendSummaryDTO resumen estadístico de la serie.
type TrendSummaryDTO struct {
	Months            int             `json:"months"`
	AverageProvision  decimal.Decimal `json:"average_provision"`
	AverageCash       decimal.Decimal `json:"average_cash"`
	CashSlopePerMonth decimal.Decimal `json:"cash_slope_per_month"`
	RiskCounts        map[string]int  `json:"risk_counts"`
}

// HistoryResponse serie histórica en la ventana pedida.
type HistoryResponse struct {
	Months  int               `json:"months"`
	Points  []HistoryPointDTO `json:"points"`
	Summary TrendSummaryDTO   `json:"summary"`
}

// ProvisionReportDTO datos que alimentan el PDF del reporte de provisión.
type ProvisionReportDTO struct {
	UserName    string
	UserEmail   string
	GeneratedAt string
	Estimate    EstimateResponse
	History     HistoryResponse
}
