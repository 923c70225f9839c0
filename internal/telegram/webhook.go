package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"familytime/internal/httpserver"
	"familytime/internal/wordpair"
)

// RoundService — то, что webhook использует для раундов игры.
type RoundService interface {
	Next(ctx context.Context, sessionID string, req wordpair.Request) wordpair.Outcome
	Reset(ctx context.Context, sessionID string) error
}

type WebhookDeps struct {
	Rounds        RoundService
	Bot           BotClient
	Logger        *slog.Logger
	WebhookSecret string
}

type WebhookHandler struct {
	rounds        RoundService
	bot           BotClient
	logger        *slog.Logger
	webhookSecret string
}

func NewWebhookHandler(deps WebhookDeps) *WebhookHandler {
	return &WebhookHandler{
		rounds:        deps.Rounds,
		bot:           deps.Bot,
		logger:        deps.Logger,
		webhookSecret: deps.WebhookSecret,
	}
}

const helpText = "Hallo! Befehle:\n" +
	"/wort [Kategorie] – neues Wortpaar für Impostor\n" +
	"/mix [Kategorie] – zwei vergleichbare Fragen\n" +
	"/reset – bereits gespielte Wörter vergessen"

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		if secret := r.Header.Get("X-Telegram-Bot-Api-Secret-Token"); secret != h.webhookSecret {
			httpserver.WriteJSONError(w, http.StatusForbidden, "forbidden", "invalid webhook secret")
			return
		}
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse update")
		return
	}
	if upd.Message == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	text := strings.TrimSpace(upd.Message.Text)
	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, upd.Message.Chat.ID, text)
	} else {
		h.reply(ctx, upd.Message.Chat.ID, helpText)
	}

	httpserver.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *WebhookHandler) handleCommand(ctx context.Context, chatID int64, text string) {
	parts := strings.SplitN(text, " ", 2)
	// В группах команда приходит как /wort@botname.
	cmd, _, _ := strings.Cut(parts[0], "@")
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/start", "/help":
		h.reply(ctx, chatID, helpText)
	case "/wort", "/word":
		h.handleRound(ctx, chatID, wordpair.GameTypeImpostor, arg)
	case "/mix":
		h.handleRound(ctx, chatID, wordpair.GameTypeQuestionMix, arg)
	case "/reset":
		if err := h.rounds.Reset(ctx, sessionID(chatID)); err != nil {
			h.logger.Error("reset session failed", slog.String("error", err.Error()))
			h.reply(ctx, chatID, "Zurücksetzen fehlgeschlagen. Bitte später erneut versuchen.")
			return
		}
		h.reply(ctx, chatID, "Alles vergessen – die nächste Runde startet frisch.")
	default:
		h.reply(ctx, chatID, "Unbekannter Befehl. Versuche /help")
	}
}

func (h *WebhookHandler) handleRound(ctx context.Context, chatID int64, gameType wordpair.GameType, category string) {
	out := h.rounds.Next(ctx, sessionID(chatID), wordpair.Request{
		Category: category,
		GameType: gameType,
	})
	h.reply(ctx, chatID, formatPair(gameType, out.Pair))
}

func formatPair(gameType wordpair.GameType, pair wordpair.WordPair) string {
	if gameType == wordpair.GameTypeQuestionMix {
		return fmt.Sprintf("Kategorie: %s\nFrage A: %s\nFrage B: %s", pair.Category, pair.SecretWord, pair.HintWord)
	}
	return fmt.Sprintf("Kategorie: %s\nGeheimwort: %s\nHinweis für den Impostor: %s", pair.Category, pair.SecretWord, pair.HintWord)
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (h *WebhookHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error("send message failed", slog.String("error", err.Error()))
	}
}
