package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"example.com/userdir/internal/app"
	"example.com/userdir/internal/config"
	"example.com/userdir/internal/server"
)

func main() {
	cfg := config.Load()
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	srv := server.New(cfg.HTTPAddr, a.Router)
	if err := srv.Listen(); err != nil {
		log.Fatalf("listen %s: %v", cfg.HTTPAddr, err)
	}
	if users, err := a.Users.List(context.Background()); err == nil {
		log.Printf("Server running on http://%s (%s, %s storage)", srv.Addr(), cfg.Env, cfg.Storage)
		log.Printf("Sample users loaded: %d users in %s", len(users), cfg.Storage)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case sig := <-stop:
		log.Printf("signal %s received, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server error: %v", err)
	}
}
