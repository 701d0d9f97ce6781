package repository

import (
	"context"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// MonthlyInputRepository puerto de persistencia de los datos mensuales.
// La clave es (user_id, year, month); Upsert resuelve escrituras concurrentes
// con "la última gana".
type MonthlyInputRepository interface {
	Upsert(ctx context.Context, in *entity.MonthlyInput) error
	Get(ctx context.Context, userID string, year, month int) (*entity.MonthlyInput, error)
	// ListSince devuelve los meses con período >= fromPeriod (year*12+month), sin orden garantizado.
	ListSince(ctx context.Context, userID string, fromPeriod int) ([]entity.MonthlyInput, error)
}
