package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmateo/privmsg/internal/server/config"
	"github.com/lmateo/privmsg/pkg/api"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoragePath = filepath.Join(t.TempDir(), "test.db")
	cfg.JWTSecret = "test-secret"

	app, err := New(context.Background(), testLogger(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, app.store.Close())
	})
	return app
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a *App) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, app *App, username, password string) api.AuthResponse {
	t.Helper()

	w := app.do(t, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestApp_Health(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_RegisterLoginAndMessage(t *testing.T) {
	app := setupTestApp(t)

	alice := registerUser(t, app, "alice", "alicepass")
	bob := registerUser(t, app, "bob", "bobpass")

	// Login works with the registered credentials.
	w := app.do(t, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Username: "alice",
		Password: "alicepass",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Alice writes to bob.
	w = app.do(t, http.MethodPost, "/api/v1/messages", alice.AccessToken, api.SendMessageRequest{
		RecipientID: bob.UserID,
		Text:        "hello bob",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bob sees it.
	w = app.do(t, http.MethodGet, "/api/v1/messages", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msgs api.MessagesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msgs))
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, "hello bob", msgs.Messages[0].Text)
	assert.Equal(t, "alice", msgs.Messages[0].SenderName)
}

func TestApp_BlockStopsDelivery(t *testing.T) {
	app := setupTestApp(t)

	alice := registerUser(t, app, "alice", "alicepass")
	bob := registerUser(t, app, "bob", "bobpass")

	// Bob blocks alice.
	w := app.do(t, http.MethodPost, "/api/v1/blocks", bob.AccessToken, api.BlockRequest{Username: "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	// Alice can no longer write to bob.
	w = app.do(t, http.MethodPost, "/api/v1/messages", alice.AccessToken, api.SendMessageRequest{
		RecipientID: bob.UserID,
		Text:        "hello?",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bob can still write to alice.
	w = app.do(t, http.MethodPost, "/api/v1/messages", bob.AccessToken, api.SendMessageRequest{
		RecipientID: alice.UserID,
		Text:        "one way",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestApp_ProtectedRoutesRequireToken(t *testing.T) {
	app := setupTestApp(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/messages"},
		{http.MethodPost, "/api/v1/messages"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/blocks"},
		{http.MethodPost, "/api/v1/reports"},
		{http.MethodPost, "/api/v1/auth/logout"},
	} {
		w := app.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestApp_SQLiteBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = config.BackendSQLite
	cfg.StoragePath = filepath.Join(t.TempDir(), "test.sqlite")

	app, err := New(context.Background(), testLogger(), cfg, "test")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, app.store.Close())
	}()

	registerUser(t, app, "alice", "alicepass")
}
