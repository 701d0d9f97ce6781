package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

// ProfileUseCase gestiona el perfil tributario del usuario (uno por usuario).
type ProfileUseCase struct {
	repo repository.TaxProfileRepository
	now  func() time.Time
}

// NewProfileUseCase construye el caso de uso con el puerto de persistencia. now nil usa time.Now.
func NewProfileUseCase(repo repository.TaxProfileRepository, now func() time.Time) *ProfileUseCase {
	if now == nil {
		now = time.Now
	}
	return &ProfileUseCase{repo: repo, now: now}
}

// Get devuelve el perfil del usuario o domain.ErrProfileNotFound.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	return toProfileResponse(p), nil
}

// Upsert normaliza el payload crudo y crea o reemplaza el perfil.
// Los campos omitidos toman su valor por defecto; no se mezclan con el perfil anterior.
func (uc *ProfileUseCase) Upsert(ctx context.Context, userID string, raw map[string]any) (*dto.ProfileResponse, error) {
	p, err := provision.NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	// El repositorio conserva created_at si el perfil ya existía.
	p.CreatedAt = uc.now()
	p.UpdatedAt = p.CreatedAt
	if err := uc.repo.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return toProfileResponse(&p), nil
}
