package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"familytime/internal/config"
)

var (
	ErrInvalidModel  = errors.New("model is required")
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
	ErrEmptyResponse = errors.New("empty response from model")
)

const maxErrorBody = 512

// StatusError возвращается, когда Gemini ответил не-2xx статусом.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Body)
}

type GeminiClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewGeminiClient делает ровно одну попытку на вызов: повторы здесь не нужны,
// вызывающий код сам решает, что делать при ошибке.
func NewGeminiClient(cfg config.GeminiConfig, httpClient *http.Client, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel: cfg.Model,
		httpClient:   httpClient,
		logger:       logger,
	}
}

func (c *GeminiClient) GenerateContent(ctx context.Context, in GenerateRequest) (string, error) {
	model := in.Model
	if model == "" {
		model = c.defaultModel
	}
	if model == "" {
		return "", ErrInvalidModel
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: in.Prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature: in.Temperature,
			TopP:        in.TopP,
		},
	}
	if len(in.Schema) > 0 {
		body.GenerationConfig.ResponseMimeType = "application/json"
		body.GenerationConfig.ResponseSchema = in.Schema
	}

	start := time.Now()
	text, err := c.doRequest(ctx, model, body)
	if c.logger != nil {
		attrs := []any{
			slog.String("model", model),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		c.logger.Debug("gemini generateContent", attrs...)
	}
	return text, err
}

func (c *GeminiClient) doRequest(ctx context.Context, model string, body generateContentRequest) (string, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		snippet := string(bodyBytes)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked (%s): %w", parsed.PromptFeedback.BlockReason, ErrEmptyResponse)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	// Ответ может быть разбит на несколько частей, склеиваем текстовые.
	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}
