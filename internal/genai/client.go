package genai

import (
	"context"
	"encoding/json"
)

// Client минимальный интерфейс генеративной модели: один промпт, один ответ.
type Client interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest описывает один запрос generateContent.
// Пустая Schema означает свободный текстовый ответ.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Schema      json.RawMessage
	Temperature float64
	TopP        float64
}
