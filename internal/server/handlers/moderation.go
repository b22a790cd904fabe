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

// ModerationHandler serves user blocking and abuse reports.
type ModerationHandler struct {
	logger     *slog.Logger
	users      storage.UserStorage
	moderation storage.ModerationStorage
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	moderation storage.ModerationStorage,
) *ModerationHandler {
	return &ModerationHandler{
		logger:     logger,
		users:      users,
		moderation: moderation,
	}
}

// Block handles POST /api/v1/blocks. Blocking is directed and idempotent;
// blocking yourself is rejected.
func (h *ModerationHandler) Block(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode block request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" {
		sendError(h.logger, w, "username is required", http.StatusBadRequest)
		return
	}

	target, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if target.ID == userID {
		sendError(h.logger, w, "you cannot block yourself", http.StatusBadRequest)
		return
	}

	added, err := h.moderation.AddBlock(ctx, userID, target.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to add block", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user blocked",
		slog.String("blocker_id", userID),
		slog.String("target_id", target.ID),
		slog.Bool("already_blocked", !added))

	sendJSON(h.logger, w, api.BlockResponse{
		Username:       target.Username,
		AlreadyBlocked: !added,
	}, http.StatusOK)
}

// Report handles POST /api/v1/reports. Every submission is appended as-is;
// duplicates are kept because report volume is itself a signal.
func (h *ModerationHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, ok := GetUsername(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode report request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ReportedUser == "" || req.Reason == "" {
		sendError(h.logger, w, "reported_user and reason are required", http.StatusBadRequest)
		return
	}

	report := &models.Report{
		ReportedBy:       username,
		ReportedUser:     req.ReportedUser,
		Reason:           req.Reason,
		ReportedMessage:  req.ReportedMessage,
		MessageTimestamp: req.MessageTimestamp,
		ReportedAt:       time.Now(),
	}
	if err := h.moderation.SaveReport(ctx, report); err != nil {
		h.logger.ErrorContext(ctx, "failed to save report", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "report filed",
		slog.String("reported_by", username),
		slog.String("reported_user", req.ReportedUser))

	w.WriteHeader(http.StatusCreated)
}
