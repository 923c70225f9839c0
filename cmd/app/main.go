package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"familytime/internal/config"
	"familytime/internal/genai"
	"familytime/internal/history"
	"familytime/internal/httpserver"
	"familytime/internal/round"
	"familytime/internal/telegram"
	"familytime/internal/transport"
	"familytime/internal/wordpair"

	"github.com/redis/go-redis/v9"
)

const historySweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, all word pairs will come from the fallback list")
	}

	fallback, err := wordpair.LoadFallbackTable(cfg.Generation.FallbackPath)
	if err != nil {
		log.Fatalf("failed to load fallback words: %v", err)
	}

	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	geminiClient := genai.NewGeminiClient(cfg.Gemini, httpClient, logger)

	generator := wordpair.NewGenerator(wordpair.GeneratorConfig{
		Client:      geminiClient,
		Model:       cfg.Gemini.Model,
		Fallback:    fallback,
		Timeout:     cfg.Generation.Timeout,
		Temperature: &cfg.Generation.Temperature,
		TopP:        cfg.Generation.TopP,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newHistoryStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}
	defer closeStore()

	rounds := round.NewService(round.ServiceConfig{
		Generator: generator,
		History:   store,
		Logger:    logger,
	})

	var webhookHandler http.Handler
	if cfg.Telegram.Enabled() {
		bot := telegram.NewClient(cfg.Telegram, httpClient, logger)
		webhookHandler = telegram.NewWebhookHandler(telegram.WebhookDeps{
			Rounds:        rounds,
			Bot:           bot,
			Logger:        logger,
			WebhookSecret: cfg.Telegram.WebhookSecret,
		})
	} else {
		logger.Info("telegram bot disabled")
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:          logger,
		Rounds:          rounds,
		TelegramHandler: webhookHandler,
	})

	// Ответ модели может занять весь таймаут генерации.
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("model", cfg.Gemini.Model),
			slog.String("history_backend", cfg.History.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// newHistoryStore создает хранилище истории сессий. Возвращаемая функция
// освобождает ресурсы хранилища.
func newHistoryStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (history.Store, func(), error) {
	switch cfg.History.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error("close redis", slog.String("error", err.Error()))
			}
		}
		return history.NewRedisStore(client, cfg.History.TTL, cfg.History.MaxWords), closeFn, nil
	default:
		store := history.NewMemoryStore(cfg.History.TTL, cfg.History.MaxWords)
		go sweepExpired(ctx, store, logger)
		return store, func() {}, nil
	}
}

func sweepExpired(ctx context.Context, store history.Expirer, logger *slog.Logger) {
	ticker := time.NewTicker(historySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.ClearExpired(ctx, now)
			if err != nil {
				logger.Warn("clear expired sessions failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Debug("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
