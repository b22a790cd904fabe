// Package cli implements the interactive privmsg client commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/lmateo/privmsg/internal/client/api"
	"github.com/lmateo/privmsg/internal/client/session"
)

// Cli bundles the API client and the local session store.
type Cli struct {
	apiClient *api.Client
	sessions  *session.Store
}

// New creates the CLI.
func New(apiClient *api.Client, sessions *session.Store) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
	}
}

// currentSession returns a session with a live access token, refreshing
// the token pair if the cached one has expired.
func (c *Cli) currentSession(ctx context.Context) (*session.Session, error) {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return nil, fmt.Errorf("not logged in. Run 'privmsg login' first")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !sess.Expired() {
		return sess, nil
	}

	tokens, err := c.apiClient.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("session expired and refresh failed, log in again: %w", err)
	}

	sess.AccessToken = tokens.AccessToken
	sess.RefreshToken = tokens.RefreshToken
	sess.ExpiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)

	if err := c.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save refreshed session: %w", err)
	}

	return sess, nil
}

func PrintUsage() {
	fmt.Println("privmsg Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  privmsg [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        Show version information")
	fmt.Println("  --server URL     Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH        Path to local session database (default: privmsg-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register              Register a new account")
	fmt.Println("  login                 Log in to the server")
	fmt.Println("  logout                Log out and revoke the session")
	fmt.Println("  status                Show login status")
	fmt.Println("  users                 List users you can write to")
	fmt.Println("  messages              Show your mailbox")
	fmt.Println("  send <username>       Send a message to a user")
	fmt.Println("  block <username>      Block a user")
	fmt.Println("  report <username>     Report a user")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  privmsg register")
	fmt.Println("  privmsg send bob")
	fmt.Println("  privmsg --server https://example.com messages")
}

// readInput reads one line from stdin.
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}
