// Package api implements the HTTP client for the privmsg server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lmateo/privmsg/pkg/api"
)

// Client is the HTTP client for the privmsg API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Carry the Authorization header across redirects.
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register creates a new account. The server logs the account in
// immediately, so the response carries a full token pair.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", refreshToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout revokes every refresh token of the authenticated user.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ListUsers fetches the user directory.
func (c *Client) ListUsers(ctx context.Context, accessToken string) (*api.UsersResponse, error) {
	var resp api.UsersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users", accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	return &resp, nil
}

// ListMessages fetches the authenticated user's mailbox.
func (c *Client) ListMessages(ctx context.Context, accessToken string) (*api.MessagesResponse, error) {
	var resp api.MessagesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/messages", accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("messages request failed: %w", err)
	}
	return &resp, nil
}

// SendMessage sends a private message.
func (c *Client) SendMessage(ctx context.Context, accessToken string, req api.SendMessageRequest) (*api.Message, error) {
	var resp api.Message
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/messages", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("send request failed: %w", err)
	}
	return &resp, nil
}

// Block adds a user to the authenticated user's block list.
func (c *Client) Block(ctx context.Context, accessToken string, req api.BlockRequest) (*api.BlockResponse, error) {
	var resp api.BlockResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/blocks", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("block request failed: %w", err)
	}
	return &resp, nil
}

// Report files an abuse report.
func (c *Client) Report(ctx context.Context, accessToken string, req api.ReportRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/reports", accessToken, req, nil); err != nil {
		return fmt.Errorf("report request failed: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
