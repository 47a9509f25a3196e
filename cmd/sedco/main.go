package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sedcoRecords/internal/cli"
	"sedcoRecords/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if os.Getenv("SEDCO_DEBUG") != "" {
		log.Printf("Configuration loaded: %v", cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.WithConfig(cfg)).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
