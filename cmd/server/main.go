package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-org-site/internal/blob"
	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/handler"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/server"
	"github.com/MKhiriev/go-org-site/internal/service"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/internal/workers"
	"github.com/MKhiriev/go-org-site/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("org-site-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	blobStore, err := blob.NewFileStore(cfg.Storage.Files, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob store")
	}

	services, err := service.NewServices(storages, blobStore, cfg,
		models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if cfg.Seed.AdminUsername != "" {
		admin, created, err := services.UserService.EnsureAdmin(ctx, cfg.Seed)
		if err != nil {
			log.Fatal().Err(err).Msg("error seeding admin user")
		}
		log.Info().Int64("user_id", admin.UserID).Bool("created", created).Msg("admin user ensured")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	bgWorkers := workers.NewWorkers(services, cfg.Workers, log)
	bgWorkers.Run(ctx)

	if err = srv.Run(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	stop()
	bgWorkers.Wait()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
