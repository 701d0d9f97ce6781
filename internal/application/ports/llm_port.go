package ports

import "context"

// ChatTurn un turno previo de la conversación que se reenvía al modelo.
type ChatTurn struct {
	Role    string // "user" | "assistant"
	Content string
}

// LLMService define el puerto de salida para el modelo de lenguaje del asistente.
// Cualquier adaptador (Claude, Gemini, mock) debe implementar esta interfaz; la
// aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// Reply genera la respuesta del asistente a message, dado el prompt de sistema
	// y los turnos previos en orden cronológico. El contexto debe llevar un timeout.
	// Si el adaptador no tiene credenciales devuelve domain.ErrAssistantUnavailable.
	Reply(ctx context.Context, systemPrompt string, history []ChatTurn, message string) (string, error)
}
