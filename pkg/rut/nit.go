// Package rut valida datos del Registro Único Tributario (RUT) de la DIAN:
// el NIT con su dígito de verificación y los códigos de responsabilidad fiscal.
package rut

import (
	"fmt"
	"strings"
)

const (
	minNITDigits = 5
	maxNITDigits = 15
)

// pesos del dígito de verificación (Orden Administrativa 4 de 1989, DIAN),
// aplicados de derecha a izquierda sobre los dígitos del NIT.
var nitWeights = [maxNITDigits]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// CheckDigit calcula el dígito de verificación (módulo 11) de un NIT sin DV.
func CheckDigit(base string) (byte, error) {
	if len(base) < minNITDigits || len(base) > maxNITDigits {
		return 0, fmt.Errorf("rut: el NIT debe tener entre %d y %d dígitos", minNITDigits, maxNITDigits)
	}
	sum := 0
	for i := 0; i < len(base); i++ {
		d := base[len(base)-1-i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("rut: el NIT solo admite dígitos")
		}
		sum += int(d-'0') * nitWeights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// NormalizeNIT acepta "800197268", "800.197.268-4" o "800 197 268 - 4" y devuelve la forma
// canónica "800197268-4". Si el dígito de verificación viene después del guion se valida;
// si no viene, se calcula.
func NormalizeNIT(raw string) (string, error) {
	s := strings.NewReplacer(".", "", " ", "", ",", "").Replace(strings.TrimSpace(raw))
	base, dv, hasDV := strings.Cut(s, "-")
	expected, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	if hasDV {
		if len(dv) != 1 || dv[0] != expected {
			return "", fmt.Errorf("rut: dígito de verificación inválido, esperado %c", expected)
		}
	}
	return base + "-" + string(expected), nil
}
