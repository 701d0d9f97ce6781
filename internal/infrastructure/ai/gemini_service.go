package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/domain"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

// GeminiService adaptador que implementa LLMService con el SDK oficial de Google GenAI.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService construye el adaptador. model suele ser "gemini-2.0-flash".
// Si apiKey está vacío no crea cliente y las llamadas devuelven domain.ErrAssistantUnavailable.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	s := &GeminiService{model: model}
	if apiKey == "" {
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AI: crear cliente GenAI: %w", err)
	}
	s.client = client
	return s, nil
}

// Reply envía la conversación a Gemini y devuelve el texto de la respuesta.
func (s *GeminiService) Reply(ctx context.Context, systemPrompt string, history []ports.ChatTurn, message string) (string, error) {
	if s.client == nil {
		return "", domain.ErrAssistantUnavailable
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, geminiContents(history, message), config)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: Gemini falló: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return text, nil
}

// geminiContents traduce los turnos al formato de GenAI; el rol "assistant" es "model".
func geminiContents(history []ports.ChatTurn, message string) []*genai.Content {
	turns := conversation(history, message)
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == "assistant" {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(t.Content, role))
	}
	return out
}
