package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrProfileNotFound      = errors.New("perfil tributario no registrado")
	ErrMonthlyInputNotFound = errors.New("datos mensuales no registrados")
	ErrUnsupportedProfile   = errors.New("tipo de perfil no soportado")
	ErrMonthClosed          = errors.New("el mes ya está cerrado y no admite cambios")
	ErrDocumentTooLarge     = errors.New("el documento supera el tamaño permitido")
	ErrUnsupportedMedia     = errors.New("tipo de archivo no permitido")
	ErrAssistantUnavailable = errors.New("el asistente no está configurado")
	ErrAssistantTimeout     = errors.New("el asistente no respondió a tiempo")
)
