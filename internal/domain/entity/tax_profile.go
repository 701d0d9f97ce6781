package entity

import "time"

// PersonaType tipo de contribuyente según el RUT.
type PersonaType string

// Tipos de persona. Solo PersonaNatural tiene cálculo de provisión hoy.
const (
	PersonaNatural  PersonaType = "natural"
	PersonaJuridica PersonaType = "juridica"
	PersonaUnknown  PersonaType = "unknown"
)

// Regimen régimen tributario del contribuyente; define la tarifa base de renta.
type Regimen string

const (
	RegimenSimple    Regimen = "simple"
	RegimenOrdinario Regimen = "ordinario"
	RegimenUnknown   Regimen = "unknown"
)

// VATResponsibility indica si el contribuyente es responsable de IVA.
type VATResponsibility string

const (
	VATYes     VATResponsibility = "yes"
	VATNo      VATResponsibility = "no"
	VATUnknown VATResponsibility = "unknown"
)

// ProvisionStyle estilo de provisión elegido por el usuario; escala la provisión de renta.
type ProvisionStyle string

const (
	StyleConservative ProvisionStyle = "conservative"
	StyleBalanced     ProvisionStyle = "balanced"
	StyleAggressive   ProvisionStyle = "aggressive"
)

// RiskLevel señal cualitativa de riesgo de caja después de provisionar.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Valores válidos por enumeración (se usan en validación y en los CHECK de la base de datos).
var (
	PersonaTypes        = []PersonaType{PersonaNatural, PersonaJuridica, PersonaUnknown}
	Regimens            = []Regimen{RegimenSimple, RegimenOrdinario, RegimenUnknown}
	VATResponsibilities = []VATResponsibility{VATYes, VATNo, VATUnknown}
	ProvisionStyles     = []ProvisionStyle{StyleConservative, StyleBalanced, StyleAggressive}
)

// TaxProfile configuración fiscal del usuario. Existe a lo sumo uno por usuario (upsert).
type TaxProfile struct {
	UserID         string
	PersonaType    PersonaType
	Regimen        Regimen
	VATResponsible VATResponsibility
	ProvisionStyle ProvisionStyle
	Municipality   *string // informativo, no participa en el cálculo
	NIT            *string // forma canónica "base-DV"; informativo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
