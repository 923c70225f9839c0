package httpserver

import (
	"log/slog"
	"net/http"

	"familytime/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Logger *slog.Logger
	Rounds RoundService
	// TelegramHandler может быть nil, если бот не настроен.
	TelegramHandler http.Handler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	pairs := &wordPairHandler{rounds: deps.Rounds, logger: deps.Logger}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/word-pairs", pairs.create)
		r.Delete("/sessions/{sessionID}", pairs.resetSession)
	})

	if deps.TelegramHandler != nil {
		r.Post("/telegram/webhook", deps.TelegramHandler.ServeHTTP)
	}

	return r
}
