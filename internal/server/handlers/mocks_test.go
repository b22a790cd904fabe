package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmateo/privmsg/internal/models"
	"github.com/lmateo/privmsg/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users        map[string]*models.User // username -> User
	createError  error
	getUserError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	return result, nil
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	tokens        map[string]*models.RefreshToken // token -> RefreshToken
	saveError     error
	savedTokens   []*models.RefreshToken
	deletedTokens []string
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[token.Token] = token
	m.savedTokens = append(m.savedTokens, token)
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.tokens[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, token string) error {
	if _, ok := m.tokens[token]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, token)
	m.deletedTokens = append(m.deletedTokens, token)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	count := 0
	for token, rt := range m.tokens {
		if rt.UserID == userID {
			delete(m.tokens, token)
			m.deletedTokens = append(m.deletedTokens, token)
			count++
		}
	}
	return count, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

// mockMessageStorage is a mock implementation of MessageStorage for testing
type mockMessageStorage struct {
	messages  []*models.Message
	nextID    uint64
	saveError error
}

func newMockMessageStorage() *mockMessageStorage {
	return &mockMessageStorage{}
}

func (m *mockMessageStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.nextID++
	msg.ID = m.nextID
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageStorage) ListUserMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	var result []*models.Message
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.RecipientID == userID {
			result = append(result, msg)
		}
	}
	return result, nil
}

// mockModerationStorage is a mock implementation of ModerationStorage for testing
type mockModerationStorage struct {
	blocks  map[string]map[string]struct{} // blocker id -> blocked ids
	reports []*models.Report
	banned  map[string]struct{}
}

func newMockModerationStorage() *mockModerationStorage {
	return &mockModerationStorage{
		blocks: make(map[string]map[string]struct{}),
		banned: make(map[string]struct{}),
	}
}

func (m *mockModerationStorage) AddBlock(ctx context.Context, blockerID, targetID string) (bool, error) {
	set, ok := m.blocks[blockerID]
	if !ok {
		set = make(map[string]struct{})
		m.blocks[blockerID] = set
	}
	if _, exists := set[targetID]; exists {
		return false, nil
	}
	set[targetID] = struct{}{}
	return true, nil
}

func (m *mockModerationStorage) IsBlocked(ctx context.Context, blockerID, targetID string) (bool, error) {
	_, ok := m.blocks[blockerID][targetID]
	return ok, nil
}

func (m *mockModerationStorage) GetBlockedIDs(ctx context.Context, blockerID string) (map[string]struct{}, error) {
	result := make(map[string]struct{}, len(m.blocks[blockerID]))
	for id := range m.blocks[blockerID] {
		result[id] = struct{}{}
	}
	return result, nil
}

func (m *mockModerationStorage) SaveReport(ctx context.Context, report *models.Report) error {
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockModerationStorage) ListReports(ctx context.Context) ([]*models.Report, error) {
	return m.reports, nil
}

func (m *mockModerationStorage) BanUsername(ctx context.Context, username string) error {
	m.banned[username] = struct{}{}
	return nil
}

func (m *mockModerationStorage) UnbanUsername(ctx context.Context, username string) error {
	delete(m.banned, username)
	return nil
}

func (m *mockModerationStorage) IsUsernameBanned(ctx context.Context, username string) (bool, error) {
	_, ok := m.banned[username]
	return ok, nil
}

// mockActivityStorage is a mock implementation of ActivityStorage for testing
type mockActivityStorage struct {
	events map[string][]*models.LoginEvent // user id -> history
	stats  map[string]*models.SessionStats
}

func newMockActivityStorage() *mockActivityStorage {
	return &mockActivityStorage{
		events: make(map[string][]*models.LoginEvent),
		stats:  make(map[string]*models.SessionStats),
	}
}

func (m *mockActivityStorage) RecordLoginEvent(ctx context.Context, userID string, event *models.LoginEvent) error {
	history := append(m.events[userID], event)
	if len(history) > models.LoginHistoryLimit {
		history = history[len(history)-models.LoginHistoryLimit:]
	}
	m.events[userID] = history
	return nil
}

func (m *mockActivityStorage) GetLoginHistory(ctx context.Context, userID string) ([]*models.LoginEvent, error) {
	return m.events[userID], nil
}

func (m *mockActivityStorage) TouchSessionStats(ctx context.Context, userID, ip string, now time.Time) error {
	stats, ok := m.stats[userID]
	if !ok {
		stats = &models.SessionStats{FirstLogin: now}
		m.stats[userID] = stats
	}
	stats.LoginCount++
	stats.LastLogin = now
	stats.LastIP = ip
	return nil
}

func (m *mockActivityStorage) GetSessionStats(ctx context.Context, userID string) (*models.SessionStats, error) {
	return m.stats[userID], nil
}
