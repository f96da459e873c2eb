// Package main is the entry point for the ghdaily CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ghdaily/internal/backend/github"
	"ghdaily/internal/cli"
	"ghdaily/internal/commands"
	"ghdaily/internal/config"
	"ghdaily/internal/credential"
	"ghdaily/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Service, error) {
		client, err := github.New(cfg, github.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory,
		cli.WithPrompter(&credential.FormPrompter{
			In:         os.Stdin,
			Out:        os.Stderr,
			Accessible: os.Getenv("ACCESSIBLE") != "",
		}),
		cli.WithStdin(os.Stdin),
	)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
