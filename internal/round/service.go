package round

import (
	"context"
	"fmt"
	"log/slog"

	"familytime/internal/history"
	"familytime/internal/wordpair"
)

// Generator — то, что сервису нужно от wordpair.Generator.
type Generator interface {
	Resolve(ctx context.Context, req wordpair.Request) wordpair.Outcome
}

// ServiceConfig конфигурация для создания Service.
type ServiceConfig struct {
	Generator Generator
	History   history.Store
	Logger    *slog.Logger
}

// Service выдает пары для раундов игры и помнит, какие слова уже были в сессии.
type Service struct {
	generator Generator
	history   history.Store
	logger    *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: cfg.Generator,
		history:   cfg.History,
		logger:    logger,
	}
}

// Next генерирует пару для следующего раунда.
// Если sessionID пуст, история не используется. Ошибки хранилища истории
// только логируются: раунд все равно получает пару.
func (s *Service) Next(ctx context.Context, sessionID string, req wordpair.Request) wordpair.Outcome {
	if sessionID != "" && s.history != nil {
		used, err := s.history.Words(ctx, sessionID)
		if err != nil {
			s.logger.Warn("read session history failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
		req.ExcludeWords = mergeWords(req.ExcludeWords, used)
	}

	out := s.generator.Resolve(ctx, req)

	if sessionID != "" && s.history != nil {
		if err := s.history.Add(ctx, sessionID, out.Pair.SecretWord); err != nil {
			s.logger.Warn("save session history failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
	}
	return out
}

// Reset забывает все слова сессии.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if s.history == nil {
		return nil
	}
	if err := s.history.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return nil
}

// mergeWords объединяет списки без дублей, сохраняя порядок.
func mergeWords(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, w := range list {
			if _, ok := seen[w]; ok || w == "" {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
