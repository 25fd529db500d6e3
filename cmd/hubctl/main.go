package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/sensai-ai/hubkit/cmd/hubctl/commands"
	"github.com/urfave/cli/v3"
)

const (
	// LogDir specifies where hubctl log files are stored.
	LogDir = "logs/hubctl_logs"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	deps := &commands.CLIDependencies{
		LogDir: LogDir,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}

	app := &cli.Command{
		Name:  "hubctl",
		Usage: "Browse and manage learning hubs from the terminal",
		Flags: []cli.Flag{commands.ProfileFlag},
		Commands: slices.Concat(
			commands.AuthCommands(deps),
			commands.HubCommands(deps),
			commands.PostCommands(deps),
			commands.EnhancedCommands(deps),
			commands.CommunityCommands(deps),
			commands.AdminCommands(deps),
			commands.ExportCommands(deps),
		),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args)
}
