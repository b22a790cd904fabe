package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
	"github.com/lmateo/privmsg/pkg/api"
)

// MessageHandler serves the mailbox, message sending and the user
// directory.
type MessageHandler struct {
	logger     *slog.Logger
	users      storage.UserStorage
	messages   storage.MessageStorage
	moderation storage.ModerationStorage
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	messages storage.MessageStorage,
	moderation storage.ModerationStorage,
) *MessageHandler {
	return &MessageHandler{
		logger:     logger,
		users:      users,
		messages:   messages,
		moderation: moderation,
	}
}

// List handles GET /api/v1/messages.
//
// The mailbox holds every message the viewer sent or received, minus
// messages authored by users the viewer has blocked. The filter looks only
// at the viewer's own block set; being blocked by someone else never hides
// anything here.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	msgs, err := h.messages.ListUserMessages(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list messages", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	blocked, err := h.moderation.GetBlockedIDs(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get block list", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.MessagesResponse{Messages: make([]api.Message, 0, len(msgs))}
	for _, msg := range msgs {
		if _, hidden := blocked[msg.SenderID]; hidden && msg.SenderID != userID {
			continue
		}
		resp.Messages = append(resp.Messages, api.Message{
			ID:            msg.ID,
			SenderID:      msg.SenderID,
			SenderName:    msg.SenderName,
			RecipientID:   msg.RecipientID,
			RecipientName: msg.RecipientName,
			Text:          msg.Text,
			Timestamp:     msg.CreatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Send handles POST /api/v1/messages.
//
// Delivery is denied when the recipient has blocked the sender. The
// reverse direction does not matter: a sender who blocked the recipient
// can still write to them.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	senderID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}
	senderName, _ := GetUsername(ctx)

	var req api.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode send request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		sendError(h.logger, w, "message text is required", http.StatusBadRequest)
		return
	}
	if req.RecipientID == "" {
		sendError(h.logger, w, "recipient is required", http.StatusBadRequest)
		return
	}

	recipient, err := h.users.GetUserByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "recipient not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get recipient", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	blocked, err := h.moderation.IsBlocked(ctx, recipient.ID, senderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if blocked {
		h.logger.WarnContext(ctx, "message denied: sender blocked by recipient",
			slog.String("sender_id", senderID),
			slog.String("recipient_id", recipient.ID))
		sendError(h.logger, w, "you cannot send messages to this user", http.StatusForbidden)
		return
	}

	msg := &models.Message{
		SenderID:      senderID,
		SenderName:    senderName,
		RecipientID:   recipient.ID,
		RecipientName: recipient.Username,
		Text:          req.Text,
		CreatedAt:     time.Now(),
	}
	if err := h.messages.SaveMessage(ctx, msg); err != nil {
		h.logger.ErrorContext(ctx, "failed to save message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "message sent",
		slog.Uint64("message_id", msg.ID),
		slog.String("sender_id", senderID),
		slog.String("recipient_id", recipient.ID))

	sendJSON(h.logger, w, api.Message{
		ID:            msg.ID,
		SenderID:      msg.SenderID,
		SenderName:    msg.SenderName,
		RecipientID:   msg.RecipientID,
		RecipientName: msg.RecipientName,
		Text:          msg.Text,
		Timestamp:     msg.CreatedAt,
	}, http.StatusCreated)
}

// Users handles GET /api/v1/users. The directory lists every account
// except the requester, so the client can pick a recipient.
func (h *MessageHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.UsersResponse{Users: make([]api.UserSummary, 0, len(users))}
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		resp.Users = append(resp.Users, api.UserSummary{ID: u.ID, Username: u.Username})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
