package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/z-chat/backend/internal/service/chat"
	"github.com/zhouzirui/z-chat/backend/pkg/utils"
)

// UserCookie carries the anonymous user id that keys the dialog storage.
const UserCookie = "user_id"

// Bot is the chat bot behind the HTTP endpoints.
type Bot interface {
	Help() string
	Response(ctx context.Context, userID, text string) (string, error)
}

// Handler serves the chat endpoints.
type Handler struct {
	bot           Bot
	secureCookies bool
	logger        *zap.Logger
}

// New creates a chat handler.
func New(bot Bot, secureCookies bool, logger *zap.Logger) *Handler {
	return &Handler{
		bot:           bot,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/startchat", h.handleStartChat)
	r.Post("/chat", h.handleChat)
}

// handleStartChat returns the greeting.
func (h *Handler) handleStartChat(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, chat.Reply{Text: h.bot.Help()})
}

// handleChat answers one user message.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.Message
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := h.userID(w, r)

	reply, err := h.bot.Response(r.Context(), userID, payload.Text)
	if err != nil {
		if chatService.IsUserError(err) {
			utils.RespondError(w, http.StatusOK, err.Error())
			return
		}
		h.logger.Error("chat reply failed", zap.String("user", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate reply")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chat.Reply{Text: reply})
}

// userID reads the user cookie, issuing a new one on first contact.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(UserCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     UserCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Debug("issued user id", zap.String("user", id))
	return id
}
