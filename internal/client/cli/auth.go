package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lmateo/privmsg/internal/client/session"
	"github.com/lmateo/privmsg/pkg/api"
)

// RunRegister creates an account and stores the returned session.
func (c *Cli) RunRegister(ctx context.Context) error {
	fmt.Println("=== Register ===")
	fmt.Println()

	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Registered and logged in as %s\n", resp.Username)
	return nil
}

// RunLogin authenticates and stores the returned session.
func (c *Cli) RunLogin(ctx context.Context) error {
	fmt.Println("=== Login ===")
	fmt.Println()

	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Logged in as %s\n", resp.Username)
	return nil
}

// RunLogout revokes the server-side session and drops the local one.
func (c *Cli) RunLogout(ctx context.Context) error {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Println("Not logged in.")
			return nil
		}
		return err
	}

	// Revoke server side first; the local session goes away regardless.
	if err := c.apiClient.Logout(ctx, sess.AccessToken); err != nil {
		fmt.Printf("Warning: server logout failed: %v\n", err)
	}

	if err := c.sessions.Delete(ctx); err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}

// RunStatus prints the local login state.
func (c *Cli) RunStatus(ctx context.Context) error {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Println("Not logged in.")
			return nil
		}
		return err
	}

	fmt.Printf("Logged in as %s\n", sess.Username)
	if sess.Expired() {
		fmt.Println("Access token expired; it will be refreshed on the next command.")
	} else {
		fmt.Printf("Access token valid until %s\n", sess.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) saveSession(ctx context.Context, resp *api.AuthResponse) error {
	sess := &session.Session{
		UserID:       resp.UserID,
		Username:     resp.Username,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
