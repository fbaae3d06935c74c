package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-viewer/internal/adapter/driven"
	"github.com/alorle/iptv-viewer/internal/adapter/driver"
	"github.com/alorle/iptv-viewer/internal/application"
	"github.com/alorle/iptv-viewer/internal/circuitbreaker"
	"github.com/alorle/iptv-viewer/internal/config"
	"github.com/alorle/iptv-viewer/internal/memory"
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Create structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("starting iptv-viewer",
		"port", cfg.HTTP.Port,
		"db_path", cfg.DB.Path,
		"library_dir", cfg.Library.Dir,
		"log_level", cfg.Log.Level,
		"fetch_timeout", cfg.Fetch.Timeout,
		"cache_ttl", cfg.Fetch.CacheTTL,
	)

	// Open BoltDB
	db, err := bbolt.Open(cfg.DB.Path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	// Create driven adapters (repositories and playlist sources)
	favoriteRepo, err := driven.NewFavoriteBoltDBRepository(db)
	if err != nil {
		log.Fatalf("failed to create favorite repository: %v", err)
	}

	settingsRepo, err := driven.NewSettingsBoltDBRepository(db)
	if err != nil {
		log.Fatalf("failed to create settings repository: %v", err)
	}

	playlistRepo := memory.NewPlaylistRepository()

	httpSource := driven.NewBreakerPlaylistSource(
		driven.NewPlaylistHTTPSource(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, logger),
		circuitbreaker.Config{
			Name:             driven.SourceHTTP,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			Timeout:          cfg.Breaker.Timeout,
			HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
			Logger:           logger,
		},
	)
	remoteSource, err := driven.NewCachedPlaylistSource(httpSource, db, cfg.Fetch.CacheTTL, logger)
	if err != nil {
		log.Fatalf("failed to create playlist cache: %v", err)
	}

	fileSource := driven.NewPlaylistFileSource(afero.NewOsFs(), cfg.Library.Dir, cfg.Fetch.MaxBytes, logger)

	// Create application services
	services := driver.Services{
		Playlists: application.NewPlaylistService(remoteSource, fileSource, playlistRepo, settingsRepo, logger),
		Browse:    application.NewBrowseService(playlistRepo, favoriteRepo),
		Favorites: application.NewFavoriteService(favoriteRepo, playlistRepo, logger),
		Export:    application.NewExportService(playlistRepo, favoriteRepo),
		Health:    application.NewHealthService(favoriteRepo, playlistRepo),
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      driver.NewRouter(services, logger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
