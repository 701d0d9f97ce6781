package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyInput actividad financiera reportada por un usuario para un mes.
// La clave natural es (UserID, Year, Month); los reenvíos hacen upsert.
// Montos en pesos colombianos (COP), siempre finitos y >= 0 después de validar.
type MonthlyInput struct {
	UserID                string
	Year                  int
	Month                 int
	IncomeCOP             decimal.Decimal
	DeductibleExpensesCOP decimal.Decimal
	WithholdingsCOP       decimal.Decimal
	VATCollectedCOP       decimal.Decimal
	Notes                 *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Period devuelve el número de período year*12+month usado para comparar meses.
func (m MonthlyInput) Period() int {
	return PeriodNumber(m.Year, m.Month)
}

// Label devuelve el período en formato "YYYY-MM".
func (m MonthlyInput) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// PeriodNumber convierte año y mes en un entero ordenable.
func PeriodNumber(year, month int) int {
	return year*12 + month
}

// CurrentPeriod devuelve año y mes calendario de t.
func CurrentPeriod(t time.Time) (year, month int) {
	return t.Year(), int(t.Month())
}
