// Package provision contiene el núcleo de cálculo de provisión tributaria mensual:
// validación de entradas, calculadora, clasificación de riesgo e histórico.
// Todo el paquete es puro: no hace I/O, no registra logs y es seguro para uso concurrente.
package provision

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/pkg/rut"
)

// Límites de los campos de período.
const (
	MinYear          = 1900
	MaxYear          = 3000
	MinWindowMonths  = 1
	MaxWindowMonths  = 24
	DefaultWindow    = 6
	maxFreeTextRunes = 500
)

// MaxMoneyCOP tope de los montos mensuales: las columnas son NUMERIC(18,2),
// así que el valor redondeado a centavos debe ser menor que 10^16.
var MaxMoneyCOP = decimal.RequireFromString("9999999999999999.99")

// Nombres de campo tal como llegan en el JSON.
const (
	FieldYear               = "year"
	FieldMonth              = "month"
	FieldIncome             = "income_cop"
	FieldDeductibleExpenses = "deductible_expenses_cop"
	FieldWithholdings       = "withholdings_cop"
	FieldVATCollected       = "vat_collected_cop"
	FieldNotes              = "notes"
	FieldPersonaType        = "persona_type"
	FieldRegimen            = "regimen"
	FieldVATResponsible     = "vat_responsible"
	FieldProvisionStyle     = "provision_style"
	FieldMunicipality       = "municipality"
	FieldNIT                = "nit"
	FieldResponsibilities   = "responsibilities"
	FieldWindow             = "months"
)

// NormalizeMonthlyInput valida y normaliza un registro mensual sin tipar.
// El resultado no tiene UserID ni marcas de tiempo; las asigna el caso de uso.
func NormalizeMonthlyInput(raw map[string]any) (entity.MonthlyInput, error) {
	var out entity.MonthlyInput

	year, err := toInt(raw, FieldYear, MinYear, MaxYear)
	if err != nil {
		return out, err
	}
	month, err := toInt(raw, FieldMonth, 1, 12)
	if err != nil {
		return out, err
	}
	out.Year, out.Month = year, month

	money := []struct {
		field string
		dst   *decimal.Decimal
	}{
		{FieldIncome, &out.IncomeCOP},
		{FieldDeductibleExpenses, &out.DeductibleExpensesCOP},
		{FieldWithholdings, &out.WithholdingsCOP},
		{FieldVATCollected, &out.VATCollectedCOP},
	}
	for _, m := range money {
		v, err := toMoney(raw, m.field)
		if err != nil {
			return out, err
		}
		*m.dst = v
	}

	notes, err := toOptionalText(raw, FieldNotes)
	if err != nil {
		return out, err
	}
	out.Notes = notes
	return out, nil
}

// NormalizeProfile valida y normaliza un perfil tributario sin tipar.
// Campos ausentes toman su valor por defecto: provision_style → balanced, el resto → unknown.
// Si llegan los códigos de responsabilidad del RUT (responsibilities), regimen y
// vat_responsible ausentes se deducen de ellos; un valor explícito siempre prevalece.
func NormalizeProfile(raw map[string]any) (entity.TaxProfile, error) {
	var out entity.TaxProfile
	var err error

	hints, err := toRUTHints(raw)
	if err != nil {
		return out, err
	}
	regimenDefault := entity.RegimenUnknown
	if hints.Simple {
		regimenDefault = entity.RegimenSimple
	}
	vatDefault := entity.VATUnknown
	if hints.VAT != nil {
		vatDefault = entity.VATNo
		if *hints.VAT {
			vatDefault = entity.VATYes
		}
	}

	if out.PersonaType, err = toEnum(raw, FieldPersonaType, entity.PersonaTypes, entity.PersonaUnknown); err != nil {
		return out, err
	}
	if out.Regimen, err = toEnum(raw, FieldRegimen, entity.Regimens, regimenDefault); err != nil {
		return out, err
	}
	if out.VATResponsible, err = toEnum(raw, FieldVATResponsible, entity.VATResponsibilities, vatDefault); err != nil {
		return out, err
	}
	if out.ProvisionStyle, err = toEnum(raw, FieldProvisionStyle, entity.ProvisionStyles, entity.StyleBalanced); err != nil {
		return out, err
	}
	if out.Municipality, err = toOptionalText(raw, FieldMunicipality); err != nil {
		return out, err
	}
	if out.NIT, err = toNIT(raw); err != nil {
		return out, err
	}
	return out, nil
}

// ValidateWindow verifica que la ventana del histórico esté entre 1 y 24 meses.
func ValidateWindow(months int) error {
	if months < MinWindowMonths || months > MaxWindowMonths {
		return invalid(FieldWindow, "debe estar entre %d y %d", MinWindowMonths, MaxWindowMonths)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(field string, v any) (float64, error) {
	if _, ok := v.(bool); ok {
		return 0, invalid(field, "se esperaba un número")
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalid(field, "se esperaba un número")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(field, "debe ser un número finito")
	}
	return f, nil
}

func toInt(raw map[string]any, field string, lo, hi int) (int, error) {
	v, ok := raw[field]
	if !ok || isAbsent(v) {
		return 0, invalid(field, "es obligatorio")
	}
	f, err := toFloat(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalid(field, "debe ser un entero")
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, invalid(field, "debe estar entre %d y %d", lo, hi)
	}
	return int(f), nil
}

func toMoney(raw map[string]any, field string) (decimal.Decimal, error) {
	v, ok := raw[field]
	if !ok || isAbsent(v) {
		return decimal.Zero, nil
	}
	var d decimal.Decimal
	if s, ok := v.(string); ok {
		// Los textos se leen exactos; solo los números JSON pasan por float64.
		parsed, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero, invalid(field, "se esperaba un número")
		}
		d = parsed
	} else {
		f, err := toFloat(field, v)
		if err != nil {
			return decimal.Zero, err
		}
		d = decimal.NewFromFloat(f)
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(field, "no puede ser negativo")
	}
	d = d.Round(2)
	if d.GreaterThan(MaxMoneyCOP) {
		return decimal.Zero, invalid(field, "no puede superar %s", MaxMoneyCOP.String())
	}
	return d, nil
}

func toEnum[T ~string](raw map[string]any, field string, allowed []T, def T) (T, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return def, nil
	}
	s, isString := v.(string)
	if !isString {
		return def, invalid(field, "se esperaba un texto")
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for _, a := range allowed {
		if string(a) == s {
			return a, nil
		}
	}
	return def, invalid(field, "valor %q no permitido", s)
}

func toOptionalText(raw map[string]any, field string) (*string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, nil
	}
	s, isString := v.(string)
	if !isString {
		return nil, invalid(field, "se esperaba un texto")
	}
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if len([]rune(s)) > maxFreeTextRunes {
		return nil, invalid(field, "máximo %d caracteres", maxFreeTextRunes)
	}
	return &s, nil
}

func toNIT(raw map[string]any) (*string, error) {
	v, ok := raw[FieldNIT]
	if !ok || isAbsent(v) {
		return nil, nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		if t != math.Trunc(t) || t < 0 {
			return nil, invalid(FieldNIT, "formato inválido")
		}
		s = cast.ToString(int64(t))
	default:
		return nil, invalid(FieldNIT, "se esperaba un texto")
	}
	nit, err := rut.NormalizeNIT(s)
	if err != nil {
		return nil, invalid(FieldNIT, "%s", strings.TrimPrefix(err.Error(), "rut: "))
	}
	return &nit, nil
}

func toRUTHints(raw map[string]any) (rut.Hints, error) {
	v, ok := raw[FieldResponsibilities]
	if !ok || v == nil {
		return rut.Hints{}, nil
	}
	list, isList := v.([]any)
	if !isList {
		return rut.Hints{}, invalid(FieldResponsibilities, "se esperaba una lista de códigos")
	}
	codes := make([]string, 0, len(list))
	for _, item := range list {
		code, isString := item.(string)
		if !isString {
			return rut.Hints{}, invalid(FieldResponsibilities, "se esperaba una lista de códigos")
		}
		codes = append(codes, code)
	}
	h, err := rut.Derive(codes)
	if err != nil {
		return rut.Hints{}, invalid(FieldResponsibilities, "%s", strings.TrimPrefix(err.Error(), "rut: "))
	}
	return h, nil
}
