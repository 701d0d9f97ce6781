package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

// MonthlyInputUseCase registra y consulta los datos financieros mensuales.
// Solo el mes calendario en curso es editable: los anteriores están cerrados
// y los posteriores aún no existen.
type MonthlyInputUseCase struct {
	repo repository.MonthlyInputRepository
	now  func() time.Time
}

// NewMonthlyInputUseCase construye el caso de uso. now nil usa time.Now.
func NewMonthlyInputUseCase(repo repository.MonthlyInputRepository, now func() time.Time) *MonthlyInputUseCase {
	if now == nil {
		now = time.Now
	}
	return &MonthlyInputUseCase{repo: repo, now: now}
}

// Upsert normaliza y guarda el mes indicado en el payload (la última escritura gana).
func (uc *MonthlyInputUseCase) Upsert(ctx context.Context, userID string, raw map[string]any) (*dto.MonthlyInputResponse, error) {
	in, err := provision.NormalizeMonthlyInput(raw)
	if err != nil {
		return nil, err
	}
	cy, cm := entity.CurrentPeriod(uc.now())
	switch current := entity.PeriodNumber(cy, cm); {
	case in.Period() < current:
		return nil, domain.ErrMonthClosed
	case in.Period() > current:
		return nil, &provision.ValidationError{Field: provision.FieldMonth, Reason: "no se pueden registrar meses futuros"}
	}
	in.UserID = userID
	// El repositorio conserva created_at si el mes ya existía.
	in.CreatedAt = uc.now()
	in.UpdatedAt = in.CreatedAt
	if err := uc.repo.Upsert(ctx, &in); err != nil {
		return nil, err
	}
	return toMonthlyInputResponse(&in), nil
}

// Get devuelve un mes concreto o domain.ErrMonthlyInputNotFound.
func (uc *MonthlyInputUseCase) Get(ctx context.Context, userID string, year, month int) (*dto.MonthlyInputResponse, error) {
	if year < provision.MinYear || year > provision.MaxYear {
		return nil, &provision.ValidationError{Field: provision.FieldYear, Reason: "fuera de rango"}
	}
	if month < 1 || month > 12 {
		return nil, &provision.ValidationError{Field: provision.FieldMonth, Reason: "fuera de rango"}
	}
	in, err := uc.repo.Get(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.ErrMonthlyInputNotFound
	}
	return toMonthlyInputResponse(in), nil
}

// List devuelve los meses registrados dentro de la ventana móvil que termina en el mes actual.
func (uc *MonthlyInputUseCase) List(ctx context.Context, userID string, months int) (*dto.MonthlyInputListResponse, error) {
	if err := provision.ValidateWindow(months); err != nil {
		return nil, err
	}
	cy, cm := entity.CurrentPeriod(uc.now())
	current := entity.PeriodNumber(cy, cm)
	inputs, err := uc.repo.ListSince(ctx, userID, current-(months-1))
	if err != nil {
		return nil, err
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Period() < inputs[j].Period() })

	out := &dto.MonthlyInputListResponse{Months: months, Items: make([]dto.MonthlyInputResponse, 0, len(inputs))}
	for i := range inputs {
		if inputs[i].Period() > current {
			continue
		}
		out.Items = append(out.Items, *toMonthlyInputResponse(&inputs[i]))
	}
	return out, nil
}
