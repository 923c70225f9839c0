package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"familytime/internal/middleware"
	"familytime/internal/wordpair"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxRequestBody = 64 << 10

// RoundService выдает пары для раундов и управляет историей сессий.
type RoundService interface {
	Next(ctx context.Context, sessionID string, req wordpair.Request) wordpair.Outcome
	Reset(ctx context.Context, sessionID string) error
}

type wordPairHandler struct {
	rounds RoundService
	logger *slog.Logger
}

type createWordPairRequest struct {
	Category     string   `json:"category"`
	GameType     string   `json:"game_type"`
	ExcludeWords []string `json:"exclude_words"`
	SessionID    string   `json:"session_id"`
}

// fallback_reason заполняется только для source=fallback.
type wordPairResponse struct {
	ID             string `json:"id"`
	SecretWord     string `json:"secretWord"`
	HintWord       string `json:"hintWord"`
	Category       string `json:"category"`
	GameType       string `json:"game_type"`
	Source         string `json:"source"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

func (h *wordPairHandler) create(w http.ResponseWriter, r *http.Request) {
	// Пустое тело допустимо: все поля имеют значения по умолчанию.
	var in createWordPairRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "too_large", "request body is too large")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse request body")
		return
	}

	gameType, err := wordpair.ParseGameType(in.GameType)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_game_type", err.Error())
		return
	}

	out := h.rounds.Next(r.Context(), strings.TrimSpace(in.SessionID), wordpair.Request{
		Category:     in.Category,
		GameType:     gameType,
		ExcludeWords: in.ExcludeWords,
	})

	resp := wordPairResponse{
		ID:         uuid.NewString(),
		SecretWord: out.Pair.SecretWord,
		HintWord:   out.Pair.HintWord,
		Category:   out.Pair.Category,
		GameType:   string(gameType),
		Source:     string(out.Source),
	}
	if out.Failure != nil {
		resp.FallbackReason = string(out.Failure.Kind)
	}

	h.logger.Info("word pair issued",
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("pair_id", resp.ID),
		slog.String("game_type", resp.GameType),
		slog.String("source", resp.Source))

	WriteJSON(w, http.StatusOK, resp)
}

func (h *wordPairHandler) resetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.rounds.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("reset session failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		WriteJSONError(w, http.StatusInternalServerError, "internal", "cannot reset session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
