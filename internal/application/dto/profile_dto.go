package dto

import "time"

// ProfileResponse perfil tributario del usuario.
type ProfileResponse struct {
	PersonaType    string    `json:"persona_type"`
	Regimen        string    `json:"regimen"`
	VATResponsible string    `json:"vat_responsible"`
	ProvisionStyle string    `json:"provision_style"`
	Municipality   *string   `json:"municipality"`
	NIT            *string   `json:"nit"`
	UpdatedAt      time.Time `json:"updated_at"`
}
