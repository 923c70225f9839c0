package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"familytime/internal/config"
	"familytime/internal/retry"
)

type BotClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type HTTPBotClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

// NewClient создает клиента Bot API. Отправка повторяется на 429/5xx
// и сетевых ошибках согласно retry.DefaultPolicy.
func NewClient(cfg config.TelegramConfig, httpClient *http.Client, logger *slog.Logger) *HTTPBotClient {
	return &HTTPBotClient{
		token:      cfg.BotToken,
		baseURL:    cfg.APIBaseURL,
		httpClient: httpClient,
		policy:     retry.DefaultPolicy(),
		logger:     logger,
	}
}

func (c *HTTPBotClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	resp, err := retry.DoHTTP(ctx, c.httpClient, c.policy, c.logger, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("execute telegram request: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return fmt.Errorf("decode telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !parsed.Ok {
		return fmt.Errorf("telegram api error: %s", parsed.Description)
	}
	return nil
}
