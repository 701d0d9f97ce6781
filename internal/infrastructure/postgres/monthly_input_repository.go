package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

var _ repository.MonthlyInputRepository = (*MonthlyInputRepo)(nil)

// MonthlyInputRepo datos mensuales sobre PostgreSQL. Los montos son NUMERIC(18,2)
// y se leen como decimal.Decimal gracias al codec registrado en el pool.
type MonthlyInputRepo struct {
	q Querier
}

// NewMonthlyInputRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMonthlyInputRepository(q Querier) *MonthlyInputRepo {
	return &MonthlyInputRepo{q: q}
}

const monthlyInputColumns = `user_id, year, month, income_cop, deductible_expenses_cop,
		withholdings_cop, vat_collected_cop, notes, created_at, updated_at`

// Upsert inserta o reemplaza el mes (user_id, year, month); la última escritura gana.
func (r *MonthlyInputRepo) Upsert(ctx context.Context, in *entity.MonthlyInput) error {
	query := `
		INSERT INTO monthly_inputs (` + monthlyInputColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET income_cop              = EXCLUDED.income_cop,
		              deductible_expenses_cop = EXCLUDED.deductible_expenses_cop,
		              withholdings_cop        = EXCLUDED.withholdings_cop,
		              vat_collected_cop       = EXCLUDED.vat_collected_cop,
		              notes                   = EXCLUDED.notes,
		              updated_at              = EXCLUDED.updated_at
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		in.UserID, in.Year, in.Month,
		in.IncomeCOP, in.DeductibleExpensesCOP, in.WithholdingsCOP, in.VATCollectedCOP,
		in.Notes, in.CreatedAt, in.UpdatedAt,
	).Scan(&in.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert monthly input %04d-%02d: %w", in.Year, in.Month, err)
	}
	return nil
}

// Get obtiene un mes. (nil, nil) si no existe.
func (r *MonthlyInputRepo) Get(ctx context.Context, userID string, year, month int) (*entity.MonthlyInput, error) {
	query := `SELECT ` + monthlyInputColumns + ` FROM monthly_inputs
		WHERE user_id = $1 AND year = $2 AND month = $3`
	in, err := scanMonthlyInput(r.q.QueryRow(ctx, query, userID, year, month))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get monthly input: %w", err)
	}
	return in, nil
}

// ListSince devuelve los meses con year*12+month >= fromPeriod.
func (r *MonthlyInputRepo) ListSince(ctx context.Context, userID string, fromPeriod int) ([]entity.MonthlyInput, error) {
	query := `SELECT ` + monthlyInputColumns + ` FROM monthly_inputs
		WHERE user_id = $1 AND (year * 12 + month) >= $2
		ORDER BY year, month`
	rows, err := r.q.Query(ctx, query, userID, fromPeriod)
	if err != nil {
		return nil, fmt.Errorf("list monthly inputs: %w", err)
	}
	defer rows.Close()

	var list []entity.MonthlyInput
	for rows.Next() {
		in, err := scanMonthlyInput(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monthly input: %w", err)
		}
		list = append(list, *in)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonthlyInput(row rowScanner) (*entity.MonthlyInput, error) {
	var in entity.MonthlyInput
	err := row.Scan(
		&in.UserID, &in.Year, &in.Month,
		&in.IncomeCOP, &in.DeductibleExpensesCOP, &in.WithholdingsCOP, &in.VATCollectedCOP,
		&in.Notes, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}
