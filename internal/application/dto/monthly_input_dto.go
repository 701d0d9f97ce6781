package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyInputResponse datos financieros de un mes. Los montos viajan como string decimal.
type MonthlyInputResponse struct {
	Year                  int             `json:"year"`
	Month                 int             `json:"month"`
	Period                string          `json:"period"`
	IncomeCOP             decimal.Decimal `json:"income_cop"`
	DeductibleExpensesCOP decimal.Decimal `json:"deductible_expenses_cop"`
	WithholdingsCOP       decimal.Decimal `json:"withholdings_cop"`
	VATCollectedCOP       decimal.Decimal `json:"vat_collected_cop"`
	Notes                 *string         `json:"notes"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// MonthlyInputListResponse meses registrados en la ventana solicitada, ascendente.
type MonthlyInputListResponse struct {
	Months int                    `json:"months"`
	Items  []MonthlyInputResponse `json:"items"`
}
