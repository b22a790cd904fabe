package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmateo/privmsg/internal/client/api"
	"github.com/lmateo/privmsg/internal/client/cli"
	"github.com/lmateo/privmsg/internal/client/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "privmsg-client.db", "Path to local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	ctx := context.Background()

	sessions, err := session.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close session database", "error", err)
		}
	}()

	app := cli.New(api.NewClient(*serverURL), sessions)

	var runErr error
	switch command {
	case "register":
		runErr = app.RunRegister(ctx)
	case "login":
		runErr = app.RunLogin(ctx)
	case "logout":
		runErr = app.RunLogout(ctx)
	case "status":
		runErr = app.RunStatus(ctx)
	case "users":
		runErr = app.RunUsers(ctx)
	case "messages":
		runErr = app.RunMessages(ctx)
	case "send":
		runErr = app.RunSend(ctx, args[1:])
	case "block":
		runErr = app.RunBlock(ctx, args[1:])
	case "report":
		runErr = app.RunReport(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("privmsg Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
