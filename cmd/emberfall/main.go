// main is the entry point of the Emberfall promo-site service.
// It initializes the configuration, logger, database, GeoIP provider and
// status poller, and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/config"
	"github.com/RESA9399/emberfall/internal/geoip"
	"github.com/RESA9399/emberfall/internal/logger"
	"github.com/RESA9399/emberfall/internal/maintenance"
	"github.com/RESA9399/emberfall/internal/server"
	"github.com/RESA9399/emberfall/internal/status"
	"github.com/RESA9399/emberfall/internal/storage"
	"github.com/RESA9399/emberfall/internal/util"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting emberfall service...")

	// GeoIP update
	log.Info().Msg("Checking GeoIP database...")
	if err := geoip.EnsureDB(cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}

	geoProvider, err := geoip.Open(cfg.GeoIP.Path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		geoProvider = nil
	} else {
		defer func() {
			if err := geoProvider.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing GeoIP provider")
			}
		}()
	}

	// Database
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Database maintenance
	if maintenance.Run(cfg, store) {
		return
	}

	// Digit localization
	digits, err := util.NewDigitFormatter(cfg.Page.Digits)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid digit glyph set")
	}

	// Status poller
	var source status.Source
	if cfg.Game.Simulate {
		source = func() (status.Status, error) { return status.Simulate(), nil }
	} else {
		opts := status.QueryOptions{Timeout: cfg.Game.QueryTimeout, BufferSize: cfg.Game.QueryBufferSize}
		source = func() (status.Status, error) { return status.Query(cfg.Game.Address, opts) }
	}

	cell := status.NewCell(status.Status{State: status.Offline})
	poller := status.NewPoller(cell, source, cfg.Game.RefreshInterval)

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	go poller.Run(pollCtx)

	// Init server
	srvHandler := server.New(store, geoProvider, poller, digits, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // session sockets hold long writes
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopPolling()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
