package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/matthewbaird/roster/internal/auth"
	"github.com/matthewbaird/roster/internal/config"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/server"
	"github.com/matthewbaird/roster/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	st := store.NewSQLiteStore(db)
	if err := st.Migrate(ctx); err != nil {
		logger.Fatal("running schema migration", zap.Error(err))
	}
	logger.Info("database migrated")

	loader := schema.NewLoader(cfg.SchemaPath, cfg.SchemaURL, logger)

	if err := server.Run(ctx, server.Config{
		Port:        cfg.Port,
		Store:       st,
		Loader:      loader,
		Auth:        auth.NewManager([]byte(cfg.SessionKey), nil),
		RequireAuth: cfg.RequireAuth,
		Log:         logger,
	}); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
