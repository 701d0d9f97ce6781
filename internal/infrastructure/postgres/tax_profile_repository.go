package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

var _ repository.TaxProfileRepository = (*TaxProfileRepo)(nil)

// TaxProfileRepo perfiles tributarios sobre PostgreSQL (tabla tax_profiles, PK user_id).
type TaxProfileRepo struct {
	q Querier
}

// NewTaxProfileRepository construye el adaptador.
func NewTaxProfileRepository(q Querier) *TaxProfileRepo {
	return &TaxProfileRepo{q: q}
}

// Upsert crea o reemplaza el perfil del usuario. created_at se conserva en la actualización.
func (r *TaxProfileRepo) Upsert(ctx context.Context, p *entity.TaxProfile) error {
	query := `
		INSERT INTO tax_profiles (user_id, persona_type, regimen, vat_responsible, provision_style, municipality, nit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id)
		DO UPDATE SET persona_type    = EXCLUDED.persona_type,
		              regimen         = EXCLUDED.regimen,
		              vat_responsible = EXCLUDED.vat_responsible,
		              provision_style = EXCLUDED.provision_style,
		              municipality    = EXCLUDED.municipality,
		              nit             = EXCLUDED.nit,
		              updated_at      = EXCLUDED.updated_at
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		p.UserID, string(p.PersonaType), string(p.Regimen), string(p.VATResponsible),
		string(p.ProvisionStyle), p.Municipality, p.NIT, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert tax profile: %w", err)
	}
	return nil
}

// GetByUserID obtiene el perfil del usuario. (nil, nil) si no tiene.
func (r *TaxProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.TaxProfile, error) {
	query := `
		SELECT user_id, persona_type, regimen, vat_responsible, provision_style, municipality, nit, created_at, updated_at
		FROM tax_profiles WHERE user_id = $1`
	var (
		p                            entity.TaxProfile
		persona, regimen, vat, style string
	)
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &persona, &regimen, &vat, &style, &p.Municipality, &p.NIT, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax profile: %w", err)
	}
	p.PersonaType = entity.PersonaType(persona)
	p.Regimen = entity.Regimen(regimen)
	p.VATResponsible = entity.VATResponsibility(vat)
	p.ProvisionStyle = entity.ProvisionStyle(style)
	return &p, nil
}
