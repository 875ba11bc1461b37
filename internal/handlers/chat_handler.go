package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

type ChatHandler struct {
	chat     services.ChatService
	profiles services.ProfileService
}

func NewChatHandler(chat services.ChatService, profiles services.ProfileService) *ChatHandler {
	return &ChatHandler{chat: chat, profiles: profiles}
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.ListRecent(r.Context(), ListLimit)
	if err != nil {
		logrus.WithError(err).Error("list chat messages")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list messages"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(messages))
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	email := middleware.GetUserEmail(r.Context())

	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	// Messages are denormalized with the sender's current name and avatar so
	// the feed renders without profile lookups.
	prof, err := h.profiles.GetOrCreate(r.Context(), userID, email)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("load sender profile")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to post message"))
		return
	}

	msg, err := h.chat.Post(r.Context(), userID, displayNameFor(prof), prof.AvatarURL, req.Text)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("post chat message")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to post message"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(msg))
}
