// Command admin operates directly on the server database: IP blocks,
// username bans, abuse reports and per-user login activity. Run it
// against the same database file the server uses, with the server
// stopped or on a copy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmateo/privmsg/internal/server"
	"github.com/lmateo/privmsg/internal/server/config"
	"github.com/lmateo/privmsg/internal/server/storage"
)

func main() {
	backend := flag.String("storage", config.BackendBolt, "storage backend: bolt or sqlite")
	path := flag.String("path", "privmsg.db", "path to the database file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = *backend
	cfg.StoragePath = *path

	store, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := run(ctx, store, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, store storage.Storage, args []string) error {
	command := args[0]
	args = args[1:]

	switch command {
	case "block-ip":
		return withArg(args, "ip", func(ip string) error {
			if err := store.BlockIP(ctx, ip); err != nil {
				return err
			}
			fmt.Printf("blocked %s\n", ip)
			return nil
		})
	case "unblock-ip":
		return withArg(args, "ip", func(ip string) error {
			if err := store.UnblockIP(ctx, ip); err != nil {
				return err
			}
			fmt.Printf("unblocked %s\n", ip)
			return nil
		})
	case "list-ips":
		ips, err := store.ListBlockedIPs(ctx)
		if err != nil {
			return err
		}
		for _, ip := range ips {
			fmt.Println(ip)
		}
		return nil
	case "ban-user":
		return withArg(args, "username", func(username string) error {
			if err := store.BanUsername(ctx, username); err != nil {
				return err
			}
			fmt.Printf("banned %s\n", username)
			return nil
		})
	case "unban-user":
		return withArg(args, "username", func(username string) error {
			if err := store.UnbanUsername(ctx, username); err != nil {
				return err
			}
			fmt.Printf("unbanned %s\n", username)
			return nil
		})
	case "reports":
		reports, err := store.ListReports(ctx)
		if err != nil {
			return err
		}
		for _, r := range reports {
			fmt.Printf("%s  %s reported %s: %s\n",
				r.ReportedAt.Format("2006-01-02 15:04:05"), r.ReportedBy, r.ReportedUser, r.Reason)
			if r.ReportedMessage != "" {
				fmt.Printf("    message: %q\n", r.ReportedMessage)
			}
		}
		return nil
	case "history":
		return withArg(args, "username", func(username string) error {
			user, err := store.GetUserByUsername(ctx, username)
			if err != nil {
				return err
			}
			events, err := store.GetLoginHistory(ctx, user.ID)
			if err != nil {
				return err
			}
			for _, e := range events {
				fmt.Printf("%s  %-14s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Status, e.IP)
			}
			return nil
		})
	case "stats":
		return withArg(args, "username", func(username string) error {
			user, err := store.GetUserByUsername(ctx, username)
			if err != nil {
				return err
			}
			stats, err := store.GetSessionStats(ctx, user.ID)
			if err != nil {
				return err
			}
			if stats == nil {
				fmt.Println("no logins recorded")
				return nil
			}
			fmt.Printf("logins:      %d\n", stats.LoginCount)
			fmt.Printf("first login: %s\n", stats.FirstLogin.Format("2006-01-02 15:04:05"))
			fmt.Printf("last login:  %s\n", stats.LastLogin.Format("2006-01-02 15:04:05"))
			fmt.Printf("last ip:     %s\n", stats.LastIP)
			return nil
		})
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func withArg(args []string, name string, fn func(string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument: %s", name)
	}
	return fn(args[0])
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: privmsg-admin [flags] <command> [args]

Commands:
  block-ip <ip>        deny logins and registrations from an address
  unblock-ip <ip>      lift an address block
  list-ips             list blocked addresses
  ban-user <username>  deny logins for a username
  unban-user <username>
  reports              list abuse reports
  history <username>   show a user's login history
  stats <username>     show a user's session statistics

Flags:
  -storage string  storage backend: bolt or sqlite (default "bolt")
  -path string     path to the database file (default "privmsg.db")
`)
}
