package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/handler"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
	"github.com/MKhiriev/go-note-keeper/internal/server"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/workers"
	"github.com/MKhiriev/go-note-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const startupTimeout = 30 * time.Second

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("note-server").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("note-server", cfg.App.LogLevel)
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.Version
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storages")
		}
	}()

	hub := realtime.NewHub(log)

	var (
		publisher realtime.Publisher = hub
		bg                           = workers.NewWorkers(log)
	)
	if cfg.Realtime.RedisURL != "" {
		relay, err := realtime.NewRedisRelay(ctx, cfg.Realtime.RedisURL, cfg.Realtime.RedisChannel, hub, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting realtime relay")
		}
		defer relay.Close()

		publisher = relay
		bg = workers.NewWorkers(log, relay)
	}

	services, err := service.NewServices(storages, publisher, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, hub, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, hub, bg, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
