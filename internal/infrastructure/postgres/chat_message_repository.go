package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

var _ repository.ChatMessageRepository = (*ChatMessageRepo)(nil)

// ChatMessageRepo mensajes del asistente sobre PostgreSQL.
type ChatMessageRepo struct {
	q Querier
}

// NewChatMessageRepository construye el adaptador.
func NewChatMessageRepository(q Querier) *ChatMessageRepo {
	return &ChatMessageRepo{q: q}
}

// Create persiste un mensaje.
func (r *ChatMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListRecent devuelve los últimos limit mensajes en orden ascendente.
func (r *ChatMessageRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at FROM (
			SELECT id, user_id, role, content, created_at
			  FROM chat_messages
			 WHERE user_id = $1
			 ORDER BY created_at DESC
			 LIMIT $2
		) recent
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var list []*entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByUser borra la conversación completa del usuario.
func (r *ChatMessageRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	return nil
}

// DeleteOlderThan aplica la política de retención.
func (r *ChatMessageRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM chat_messages WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge chat messages: %w", err)
	}
	return cmd.RowsAffected(), nil
}
