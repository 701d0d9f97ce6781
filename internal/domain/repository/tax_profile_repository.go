package repository

import (
	"context"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// TaxProfileRepository puerto de persistencia del perfil tributario (uno por usuario).
// GetByUserID devuelve (nil, nil) si el usuario aún no tiene perfil.
type TaxProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.TaxProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.TaxProfile, error)
}
