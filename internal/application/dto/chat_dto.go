package dto

import "time"

// MaxChatMessageRunes longitud máxima de un mensaje del usuario.
const MaxChatMessageRunes = 4000

// ChatRequest mensaje enviado al asistente.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatMessageDTO mensaje de la conversación. HTML solo viene en respuestas del asistente.
type ChatMessageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse respuesta del asistente a un mensaje.
type ChatResponse struct {
	Reply            ChatMessageDTO `json:"reply"`
	ProvisionContext bool           `json:"provision_context"` // true si el contexto de provisión estaba disponible
}

// ChatHistoryResponse conversación reciente, ascendente.
type ChatHistoryResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
}
