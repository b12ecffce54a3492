// Package ai генеративный ответ через Gemini для запросов,
// не нашедших совпадения в прайс-листе.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/QuickWebMaster/mediva-bot/internal/i18n"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

type Gemini struct {
	client  *genai.Client
	modelID string
}

func NewGemini(ctx context.Context, apiKey, modelID string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: требуется ключ Gemini API")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: создание клиента Gemini: %w", err)
	}

	return &Gemini{client: client, modelID: modelID}, nil
}

// Complete отвечает на вопрос пользователя с учетом контекста клиники.
// systemContext — строки прайс-листа и другие фоновые сведения.
func (g *Gemini) Complete(ctx context.Context, systemContext []string, userText string, language models.Language) (string, error) {
	model := g.client.GenerativeModel(g.modelID)

	system := make([]string, 0, len(systemContext)+1)
	system = append(system, systemContext...)
	system = append(system, i18n.LanguageDirective(language))
	model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n")))

	resp, err := model.GenerateContent(ctx, genai.Text(userText))
	if err != nil {
		return "", fmt.Errorf("ai: запрос к Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("ai: Gemini не вернул вариантов ответа")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("ai: Gemini вернул пустой ответ")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", errors.New("ai: Gemini вернул пустой текст")
	}
	return answer, nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
