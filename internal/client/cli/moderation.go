package cli

import (
	"context"
	"fmt"

	"github.com/lmateo/privmsg/pkg/api"
)

// RunBlock blocks the named user.
func (c *Cli) RunBlock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: block <username>")
	}

	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Block(ctx, sess.AccessToken, api.BlockRequest{Username: args[0]})
	if err != nil {
		return err
	}

	if resp.AlreadyBlocked {
		fmt.Printf("%s was already blocked.\n", resp.Username)
	} else {
		fmt.Printf("Blocked %s.\n", resp.Username)
	}
	return nil
}

// RunReport files an abuse report against the named user.
func (c *Cli) RunReport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: report <username>")
	}

	sess, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	reason, err := readInput("Reason: ")
	if err != nil {
		return fmt.Errorf("failed to read reason: %w", err)
	}

	message, err := readInput("Offending message (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	err = c.apiClient.Report(ctx, sess.AccessToken, api.ReportRequest{
		ReportedUser:    args[0],
		Reason:          reason,
		ReportedMessage: message,
	})
	if err != nil {
		return err
	}

	fmt.Println("Report filed.")
	return nil
}
