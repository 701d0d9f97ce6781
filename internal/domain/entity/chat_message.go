package entity

import "time"

// Roles de un mensaje de chat.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage mensaje persistido de la conversación del usuario con el asistente.
type ChatMessage struct {
	ID        string
	UserID    string
	Role      string
	Content   string
	CreatedAt time.Time
}
