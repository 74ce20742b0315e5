package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"example.com/userdir/internal/client"
	"example.com/userdir/internal/config"
	"example.com/userdir/internal/console"
	"example.com/userdir/internal/directory"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("API configuration: %s (%s)", cfg.APIURL, cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	ui := console.New(directory.New(api), os.Stdin, os.Stdout)
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("console: %v", err)
	}
}
