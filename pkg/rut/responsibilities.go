package rut

import (
	"fmt"
	"strings"
)

// Códigos de responsabilidad fiscal del RUT (casilla 53). En el formulario aparecen
// como "0-XX"; Normalize los lleva a "O-XX".
const (
	GranContribuyente   = "O-13"
	Autorretenedor      = "O-15"
	AgenteRetencionIVA  = "O-23"
	RegimenSimple       = "O-47"
	ResponsableIVA      = "O-48"
	NoResponsableIVA    = "O-49"
	NoAplicaOtros       = "R-99-PN"
	RetencionFuenteRent = "O-07"
	ObligadoContab      = "O-42"
)

var knownCodes = map[string]bool{
	GranContribuyente:   true,
	Autorretenedor:      true,
	AgenteRetencionIVA:  true,
	RegimenSimple:       true,
	ResponsableIVA:      true,
	NoResponsableIVA:    true,
	NoAplicaOtros:       true,
	RetencionFuenteRent: true,
	ObligadoContab:      true,
}

// Normalize pasa un código a mayúsculas con prefijo "O-" y verifica que sea conocido.
func Normalize(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if strings.HasPrefix(c, "0-") {
		c = "O-" + c[2:]
	}
	if !knownCodes[c] {
		return "", fmt.Errorf("rut: código de responsabilidad %q desconocido", code)
	}
	return c, nil
}

// Hints lo que los códigos del RUT dicen sobre el régimen y el IVA.
type Hints struct {
	Simple bool  // O-47 presente
	VAT    *bool // O-48 → true, O-49 → false, nil si no hay ninguno
}

// Derive interpreta una lista de códigos. O-48 y O-49 juntos son contradictorios.
func Derive(codes []string) (Hints, error) {
	var h Hints
	seen := map[string]bool{}
	for _, raw := range codes {
		c, err := Normalize(raw)
		if err != nil {
			return Hints{}, err
		}
		seen[c] = true
	}
	if seen[ResponsableIVA] && seen[NoResponsableIVA] {
		return Hints{}, fmt.Errorf("rut: %s y %s son excluyentes", ResponsableIVA, NoResponsableIVA)
	}
	h.Simple = seen[RegimenSimple]
	switch {
	case seen[ResponsableIVA]:
		v := true
		h.VAT = &v
	case seen[NoResponsableIVA]:
		v := false
		h.VAT = &v
	}
	return h, nil
}
