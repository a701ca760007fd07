package main

import (
	"flag"
	"log"

	"github.com/unaascycling/settlement-recon-backend/internal/api"
	"github.com/unaascycling/settlement-recon-backend/internal/application/reconcile"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/config"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/logging"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the config file")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configPath)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	service := reconcile.NewService(cfg, store, logger.With("system", "recon"))
	server := api.NewServer(cfg.Server, service, store, logger)

	if err := server.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
