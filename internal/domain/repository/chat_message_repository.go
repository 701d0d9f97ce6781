package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// ChatMessageRepository puerto de persistencia de la conversación con el asistente.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *entity.ChatMessage) error
	// ListRecent devuelve los últimos limit mensajes en orden cronológico ascendente.
	ListRecent(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID string) error
	// DeleteOlderThan elimina mensajes anteriores a cutoff y devuelve cuántos borró.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
