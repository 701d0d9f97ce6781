package provision

import (
	"fmt"

	"github.com/jhoicas/Provisiona-api/internal/domain"
)

// ValidationError campo mal formado o fuera de rango. El caller puede volver a
// pedir el dato al usuario; nunca llega a la calculadora.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s inválido: %s", e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedProfileError el tipo de persona no tiene cálculo disponible.
// Es permanente para los datos actuales: no se reintenta.
type UnsupportedProfileError struct {
	PersonaType string
}

func (e *UnsupportedProfileError) Error() string {
	return fmt.Sprintf("only natural-person profiles are supported in this version (persona_type=%s)", e.PersonaType)
}

// Unwrap permite errors.Is(err, domain.ErrUnsupportedProfile).
func (e *UnsupportedProfileError) Unwrap() error { return domain.ErrUnsupportedProfile }
