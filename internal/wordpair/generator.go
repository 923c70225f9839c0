package wordpair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"familytime/internal/genai"
	"familytime/internal/llmcontracts"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultTemperature = 1.0
	defaultTopP        = 0.95
)

// TokenSource выдает короткий случайный токен для промпта.
type TokenSource interface {
	Token() string
}

type randomTokens struct{}

// Token возвращает несколько символов base36, аналог «соли» в промпте.
func (randomTokens) Token() string {
	s := strconv.FormatUint(rand.Uint64(), 36)
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	return s
}

// GeneratorConfig конфигурация для создания Generator.
type GeneratorConfig struct {
	Client      genai.Client
	Model       string
	Fallback    *FallbackTable
	Timeout     time.Duration
	// Temperature nil означает значение по умолчанию; 0 передается модели как есть.
	Temperature *float64
	TopP        float64
	Tokens      TokenSource
	Intn        func(n int) int
	Logger      *slog.Logger
}

// Generator генерирует пары слов через модель и откатывается на запасной список.
// Состояния между вызовами не хранит, безопасен для конкурентного использования.
type Generator struct {
	client      genai.Client
	model       string
	contract    string
	fallback    *FallbackTable
	timeout     time.Duration
	temperature float64
	topP        float64
	tokens      TokenSource
	intn        func(n int) int
	logger      *slog.Logger
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{
		client:      cfg.Client,
		model:       cfg.Model,
		contract:    llmcontracts.ContractWordPairV1,
		fallback:    cfg.Fallback,
		timeout:     cfg.Timeout,
		temperature: defaultTemperature,
		topP:        cfg.TopP,
		tokens:      cfg.Tokens,
		intn:        cfg.Intn,
		logger:      cfg.Logger,
	}
	if g.fallback == nil {
		g.fallback = DefaultFallbackTable()
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	if cfg.Temperature != nil {
		g.temperature = *cfg.Temperature
	}
	if g.topP == 0 {
		g.topP = defaultTopP
	}
	if g.tokens == nil {
		g.tokens = randomTokens{}
	}
	if g.intn == nil {
		g.intn = rand.Intn
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate всегда возвращает пригодную пару: при любой ошибке модели
// пара берется из запасного списка.
func (g *Generator) Generate(ctx context.Context, req Request) WordPair {
	return g.Resolve(ctx, req).Pair
}

// Resolve делает то же, что Generate, но сообщает источник пары и причину отката.
func (g *Generator) Resolve(ctx context.Context, req Request) Outcome {
	req = req.Normalize()

	pair, err := g.TryGenerate(ctx, req)
	if err == nil {
		return Outcome{Pair: pair, Source: SourceModel}
	}

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		genErr = failure(FailureTransport, err)
	}
	g.logger.Warn("word pair generation failed, using fallback",
		slog.String("kind", string(genErr.Kind)),
		slog.String("contract", g.contract),
		slog.String("error", genErr.Error()),
		slog.String("game_type", string(req.GameType)),
		slog.String("category", req.Category),
		slog.Int("excluded", len(req.ExcludeWords)))

	return Outcome{
		Pair:    g.fallback.Pick(req.GameType, req.ExcludeWords, g.intn),
		Source:  SourceFallback,
		Failure: genErr,
	}
}

// TryGenerate делает ровно один запрос к модели. Ошибка всегда *GenerationError.
func (g *Generator) TryGenerate(ctx context.Context, req Request) (pair WordPair, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pair, err = WordPair{}, failure(FailureTransport, fmt.Errorf("panic during generation: %v", rec))
		}
	}()

	req = req.Normalize()
	if g.client == nil {
		return WordPair{}, failure(FailureTransport, errors.New("generation client is not configured"))
	}

	schema, err := llmcontracts.Schema(g.contract)
	if err != nil {
		return WordPair{}, failure(FailureTransport, err)
	}

	vibe := Vibes[g.intn(len(Vibes))]
	prompt := BuildPrompt(req, vibe, g.tokens.Token())

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.GenerateContent(callCtx, genai.GenerateRequest{
		Model:       g.model,
		Prompt:      prompt.Text(),
		Schema:      schema,
		Temperature: g.temperature,
		TopP:        g.topP,
	})
	if err != nil {
		if errors.Is(err, genai.ErrEmptyResponse) {
			return WordPair{}, failure(FailureEmptyResponse, err)
		}
		return WordPair{}, failure(FailureTransport, err)
	}
	return parsePair(g.contract, text)
}
