package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepdiagram/backend/pkg/config"
	"github.com/deepdiagram/backend/pkg/dispatch"
	"github.com/deepdiagram/backend/pkg/httpapi"
	"github.com/deepdiagram/backend/pkg/logging"
	"github.com/deepdiagram/backend/pkg/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.NewModuleLogger("server")

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := store.Migrate(db, logging.NewModuleLogger("migrations")); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	routerClient, client, err := cfg.Clients(ctx)
	if err != nil {
		log.Fatalf("Failed to set up model clients: %v", err)
	}
	dispatcher := dispatch.New(routerClient, client, logging.NewModuleLogger("dispatch"))

	handler := httpapi.NewChatHandler(store.NewChatStore(db), dispatcher, logging.NewModuleLogger("http"))
	server := httpapi.NewServer(cfg.ListenAddr, handler, logging.NewModuleLogger("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
