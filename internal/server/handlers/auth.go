package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lmateo/privmsg/internal/crypto"
	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
	"github.com/lmateo/privmsg/internal/validation"
	"github.com/lmateo/privmsg/pkg/api"
)

// Headers through which the trusted upstream identity provider asserts an
// already-authenticated user. The assertion is not re-verified here; the
// deployment must guarantee that clients cannot set these headers directly.
const (
	ExternalUserIDHeader   = "X-Auth-User-Id"
	ExternalUsernameHeader = "X-Auth-User-Name"
)

// AuthHandler handles registration, login, external sign-in and session
// lifecycle.
type AuthHandler struct {
	logger     *slog.Logger
	users      storage.UserStorage
	tokens     storage.TokenStorage
	moderation storage.ModerationStorage
	activity   storage.ActivityStorage
	jwtConfig  JWTConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	tokens storage.TokenStorage,
	moderation storage.ModerationStorage,
	activity storage.ActivityStorage,
	jwtConfig JWTConfig,
) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		moderation: moderation,
		activity:   activity,
		jwtConfig:  jwtConfig,
	}
}

// Register handles POST /api/v1/auth/register.
//
// Registration logs the new user in immediately. It is not a login event:
// nothing is recorded in the activity ledger until the first real login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		sendError(h.logger, w, "username and password are required", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendError(h.logger, w, "username already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login.
//
// Order matters here: the ban check runs before anything else and a ban
// rejection leaves no trace in the activity ledger. Failed attempts are
// recorded only for usernames that actually exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := ClientIP(r)

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		sendError(h.logger, w, "username and password are required", http.StatusBadRequest)
		return
	}

	banned, err := h.moderation.IsUsernameBanned(ctx, req.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check ban", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if banned {
		h.logger.WarnContext(ctx, "login rejected: username banned", slog.String("username", req.Username))
		sendError(h.logger, w, "your account has been banned, contact the administrator", http.StatusForbidden)
		return
	}

	user, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Unknown usernames are not written to the ledger.
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			sendError(h.logger, w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !crypto.VerifyPassword(user.PasswordHash, req.Password) {
		h.recordEvent(ctx, user.ID, user.Username, models.LoginFailed, ip)
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", req.Username))
		sendError(h.logger, w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	h.recordEvent(ctx, user.ID, user.Username, models.LoginSuccess, ip)
	h.touchStats(ctx, user.ID, ip)

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Session handles GET /api/v1/session.
//
// When the trusted identity headers are present the account is provisioned
// on first sight and the sign-in always succeeds; ban and credential checks
// do not apply to externally asserted identities. Without the headers the
// endpoint rejects.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := ClientIP(r)

	assertedID := r.Header.Get(ExternalUserIDHeader)
	assertedName := r.Header.Get(ExternalUsernameHeader)
	if assertedID == "" || assertedName == "" {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByUsername(ctx, assertedName)
	if errors.Is(err, storage.ErrUserNotFound) {
		user = &models.User{
			ID:        assertedID,
			Username:  assertedName,
			CreatedAt: time.Now(),
			External:  true,
		}
		err = h.users.CreateUser(ctx, user)
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			// Raced with another request for the same identity; the
			// provisioning is idempotent, pick up the winner's account.
			user, err = h.users.GetUserByUsername(ctx, assertedName)
		}
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve external identity", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.recordEvent(ctx, user.ID, user.Username, models.LoginExternal, ip)
	h.touchStats(ctx, user.ID, ip)

	h.logger.InfoContext(ctx, "external sign-in",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh. The presented refresh token
// is rotated: validated, deleted and replaced.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken, ok := bearerToken(r)
	if !ok {
		sendError(h.logger, w, "invalid Authorization header", http.StatusUnauthorized)
		return
	}

	stored, err := h.tokens.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			sendError(h.logger, w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if time.Now().After(stored.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.String("user_id", stored.UserID))
		sendError(h.logger, w, "refresh token expired", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.tokens.DeleteRefreshToken(ctx, refreshToken); err != nil {
		h.logger.WarnContext(ctx, "failed to delete old refresh token", slog.Any("error", err))
	}

	resp, err := h.issueTokens(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue tokens", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout. Every refresh token of the
// user is revoked; the call is unconditional and cannot half-succeed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.tokens.DeleteUserTokens(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete user tokens", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
		slog.Int("tokens_deleted", deleted))

	w.WriteHeader(http.StatusNoContent)
}

// issueTokens creates the access/refresh token pair for an authenticated
// user and persists the refresh token.
func (h *AuthHandler) issueTokens(ctx context.Context, user *models.User) (*api.AuthResponse, error) {
	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := GenerateRefreshToken(h.jwtConfig)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := h.tokens.SaveRefreshToken(ctx, token); err != nil {
		return nil, err
	}

	return &api.AuthResponse{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// recordEvent writes one ledger entry. Ledger failures must not break the
// authentication flow, so they are logged and swallowed.
func (h *AuthHandler) recordEvent(ctx context.Context, userID, username string, status models.LoginStatus, ip string) {
	event := &models.LoginEvent{
		Timestamp: time.Now(),
		IP:        ip,
		Status:    status,
		Username:  username,
	}
	if err := h.activity.RecordLoginEvent(ctx, userID, event); err != nil {
		h.logger.WarnContext(ctx, "failed to record login event", slog.Any("error", err))
	}
}

func (h *AuthHandler) touchStats(ctx context.Context, userID, ip string) {
	if err := h.activity.TouchSessionStats(ctx, userID, ip, time.Now()); err != nil {
		h.logger.WarnContext(ctx, "failed to update session stats", slog.Any("error", err))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
