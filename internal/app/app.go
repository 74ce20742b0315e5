package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"example.com/userdir/internal/config"
	httphandlers "example.com/userdir/internal/handler/http"
	"example.com/userdir/internal/repository"
	"example.com/userdir/internal/storage/memory"
	sqlstore "example.com/userdir/internal/storage/sql"
	"example.com/userdir/internal/usecase"
)

type App struct {
	Config config.Config
	Router http.Handler
	Store  repository.UserRepository
	Users  *usecase.UserService
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	users := usecase.NewUserService(store)
	h := httphandlers.New(users, httphandlers.Options{CORSOrigins: cfg.CORSOrigins})
	return &App{
		Config: cfg,
		Router: h,
		Store:  store,
		Users:  users,
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (repository.UserRepository, error) {
	switch cfg.Storage {
	case config.StorageMemory, "":
		return memory.New(), nil
	case config.StorageSQLite:
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.SQLitePath)
	case config.StoragePostgres:
		return sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// Close releases the store when it holds external resources.
func (a *App) Close() error {
	if c, ok := a.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
