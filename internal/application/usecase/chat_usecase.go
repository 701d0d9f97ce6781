package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

const (
	// chatHistoryTurns turnos previos que se reenvían al modelo.
	chatHistoryTurns = 20
	defaultChatList  = 50
	maxChatList      = 200

	chatSystemPrompt = `Eres Provisiona, un asesor financiero para trabajadores independientes en Colombia.
Ayudas a entender cuánto dinero apartar cada mes para renta e IVA.
Responde en español, de forma breve y concreta, usando Markdown cuando ayude (listas, negritas).
Usa las cifras del bloque de contexto tal como vienen; no inventes montos ni tarifas.
Si el contexto no está disponible, explica qué dato falta (perfil tributario o datos del mes) y cómo registrarlo.
Aclara cuando sea pertinente que la provisión es una estimación y no reemplaza la asesoría de un contador.`
)

// ProvisionContextProvider fuente del bloque de contexto de provisión (ver ProvisionUseCase.ChatContext).
type ProvisionContextProvider interface {
	ChatContext(ctx context.Context, userID string) (block string, available bool, err error)
}

// ChatUseCase conversación con el asistente. Persiste ambos lados de la conversación
// y limita cada llamada al modelo con un timeout.
type ChatUseCase struct {
	llm       ports.LLMService
	messages  repository.ChatMessageRepository
	provision ProvisionContextProvider
	md        goldmark.Markdown
	timeout   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewChatUseCase construye el caso de uso. llm nil deja el asistente deshabilitado
// (Send devuelve domain.ErrAssistantUnavailable) sin afectar el historial.
func NewChatUseCase(
	llm ports.LLMService,
	messages repository.ChatMessageRepository,
	provisionCtx ProvisionContextProvider,
	timeout time.Duration,
	log zerolog.Logger,
) *ChatUseCase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatUseCase{
		llm:       llm,
		messages:  messages,
		provision: provisionCtx,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		timeout:   timeout,
		log:       log.With().Str("component", "chat").Logger(),
		now:       time.Now,
	}
}

// Send registra el mensaje del usuario, consulta al modelo con el contexto de provisión
// y persiste la respuesta.
func (uc *ChatUseCase) Send(ctx context.Context, userID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &provision.ValidationError{Field: "message", Reason: "requerido"}
	}
	if utf8.RuneCountInString(message) > dto.MaxChatMessageRunes {
		return nil, &provision.ValidationError{Field: "message", Reason: fmt.Sprintf("máximo %d caracteres", dto.MaxChatMessageRunes)}
	}
	if uc.llm == nil {
		return nil, domain.ErrAssistantUnavailable
	}

	previous, err := uc.messages.ListRecent(ctx, userID, chatHistoryTurns)
	if err != nil {
		return nil, err
	}
	if err := uc.messages.Create(ctx, uc.newMessage(userID, entity.ChatRoleUser, message)); err != nil {
		return nil, err
	}

	block, available := uc.contextBlock(ctx, userID)
	system := chatSystemPrompt + "\n\nContexto de provisión del usuario (JSON):\n" + block

	turns := make([]ports.ChatTurn, 0, len(previous))
	for _, m := range previous {
		turns = append(turns, ports.ChatTurn{Role: m.Role, Content: m.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	started := time.Now()
	reply, err := uc.llm.Reply(callCtx, system, turns, message)
	if err != nil {
		if errors.Is(err, domain.ErrAssistantUnavailable) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			uc.log.Warn().Str("user_id", userID).Dur("timeout", uc.timeout).Msg("el modelo no respondió a tiempo")
			return nil, domain.ErrAssistantTimeout
		}
		uc.log.Error().Err(err).Str("user_id", userID).Msg("fallo del modelo")
		return nil, fmt.Errorf("asistente: %w", err)
	}
	reply = cleanReply(reply)
	if reply == "" {
		return nil, fmt.Errorf("asistente: respuesta vacía")
	}

	assistant := uc.newMessage(userID, entity.ChatRoleAssistant, reply)
	if err := uc.messages.Create(ctx, assistant); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("user_id", userID).
		Int("history_turns", len(turns)).
		Bool("provision_context", available).
		Dur("latency", time.Since(started)).
		Msg("respuesta del asistente")

	return &dto.ChatResponse{Reply: uc.toDTO(assistant), ProvisionContext: available}, nil
}

// History devuelve los últimos limit mensajes en orden cronológico.
func (uc *ChatUseCase) History(ctx context.Context, userID string, limit int) (*dto.ChatHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultChatList
	}
	if limit > maxChatList {
		limit = maxChatList
	}
	msgs, err := uc.messages.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.ChatHistoryResponse{Messages: make([]dto.ChatMessageDTO, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, uc.toDTO(m))
	}
	return out, nil
}

// Clear borra la conversación del usuario.
func (uc *ChatUseCase) Clear(ctx context.Context, userID string) error {
	return uc.messages.DeleteByUser(ctx, userID)
}

// contextBlock obtiene el bloque de provisión; un fallo degrada a "unavailable" sin cortar el chat.
func (uc *ChatUseCase) contextBlock(ctx context.Context, userID string) (string, bool) {
	if uc.provision == nil {
		return `{"status":"unavailable","reason":"NOT_CONFIGURED"}`, false
	}
	block, available, err := uc.provision.ChatContext(ctx, userID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("contexto de provisión no disponible")
		return `{"status":"unavailable","reason":"ERROR"}`, false
	}
	return block, available
}

func (uc *ChatUseCase) newMessage(userID, role, content string) *entity.ChatMessage {
	return &entity.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: uc.now(),
	}
}

func (uc *ChatUseCase) toDTO(m *entity.ChatMessage) dto.ChatMessageDTO {
	out := dto.ChatMessageDTO{ID: m.ID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
	if m.Role == entity.ChatRoleAssistant {
		out.HTML = uc.renderHTML(m.Content)
	}
	return out
}

// renderHTML convierte Markdown a HTML. El HTML crudo del modelo se omite (modo seguro de goldmark).
func (uc *ChatUseCase) renderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := uc.md.Convert([]byte(markdown), &buf); err != nil {
		uc.log.Debug().Err(err).Msg("no se pudo renderizar markdown")
		return ""
	}
	return buf.String()
}

// cleanReply quita espacios y un bloque ```markdown envolvente si el modelo lo añadió.
func cleanReply(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSuffix(s[3:], "```")
		if nl := strings.IndexByte(s, '\n'); nl != -1 && !strings.Contains(s[:nl], " ") {
			s = s[nl+1:]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
