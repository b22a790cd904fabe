package cli

import (
	"context"
	"fmt"

	"github.com/lmateo/privmsg/pkg/api"
)

// RunUsers prints the user directory.
func (c *Cli) RunUsers(ctx context.Context) error {
	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListUsers(ctx, sess.AccessToken)
	if err != nil {
		return err
	}

	if len(resp.Users) == 0 {
		fmt.Println("No other users yet.")
		return nil
	}

	for _, u := range resp.Users {
		fmt.Println(u.Username)
	}
	return nil
}

// RunMessages prints the mailbox.
func (c *Cli) RunMessages(ctx context.Context) error {
	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ListMessages(ctx, sess.AccessToken)
	if err != nil {
		return err
	}

	if len(resp.Messages) == 0 {
		fmt.Println("No messages.")
		return nil
	}

	for _, m := range resp.Messages {
		direction := "from " + m.SenderName
		if m.SenderID == sess.UserID {
			direction = "to " + m.RecipientName
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), direction, m.Text)
	}
	return nil
}

// RunSend sends a message to the named user. The recipient is resolved
// through the directory so the server works with ids.
func (c *Cli) RunSend(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: send <username>")
	}
	recipientName := args[0]

	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	recipientID, err := c.resolveUser(ctx, sess.AccessToken, recipientName)
	if err != nil {
		return err
	}

	text, err := readInput("Message: ")
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	msg, err := c.apiClient.SendMessage(ctx, sess.AccessToken, api.SendMessageRequest{
		RecipientID: recipientID,
		Text:        text,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sent to %s (message #%d)\n", msg.RecipientName, msg.ID)
	return nil
}

func (c *Cli) resolveUser(ctx context.Context, accessToken, username string) (string, error) {
	resp, err := c.apiClient.ListUsers(ctx, accessToken)
	if err != nil {
		return "", err
	}
	for _, u := range resp.Users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("user %q not found", username)
}
