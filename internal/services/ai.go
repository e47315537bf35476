package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/obraflow/obraflow-api/internal/constants"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type SuggestedChecklistItem struct {
	Texto     string `json:"texto"`
	Descricao string `json:"descricao"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestChecklistItems analyzes a task description and proposes checklist
// items using OpenAI GPT. Suggestions are proposals only; nothing is
// persisted until the caller submits them through the checklist flow.
func (s *AIService) SuggestChecklistItems(ctx context.Context, description string) ([]SuggestedChecklistItem, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`Você é um assistente de planejamento de obras. A partir da descrição de uma etapa de projeto abaixo, proponha os objetivos verificáveis que compõem o checklist de entrega da etapa.

Descrição da etapa:
%s

Responda somente com um array JSON no formato:
[
  {
    "texto": "objetivo curto e verificável",
    "descricao": "detalhes do que deve ser evidenciado na entrega"
  }
]

Regras:
- Se não houver objetivos identificáveis, responda com um array vazio []
- No máximo %d itens
- Responda apenas o JSON, sem texto adicional`, description, constants.MaxAISuggestedItems)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var items []SuggestedChecklistItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	valid := make([]SuggestedChecklistItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Texto) == "" {
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) > constants.MaxAISuggestedItems {
		valid = valid[:constants.MaxAISuggestedItems]
	}

	return valid, nil
}
