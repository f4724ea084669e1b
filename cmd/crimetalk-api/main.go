package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/crimetalk"
	"github.com/pevans/crimetalk/cache"
	"github.com/pevans/crimetalk/catalog"
	"github.com/pevans/crimetalk/config"
	"github.com/pevans/crimetalk/loader"
	"github.com/pevans/crimetalk/logging"
	"github.com/pevans/crimetalk/scraper"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	fileCfg, err := config.LoadConfigFile()
	cfg := fileCfg.WithDefaults()
	cfg.Storage.DSN = getEnv("CRIMETALK_DB", cfg.Storage.DSN)
	cfg.API.Addr = getEnv("CRIMETALK_API_ADDR", cfg.API.Addr)
	cfg.Refresh.Schedule = getEnv("CRIMETALK_REFRESH", cfg.Refresh.Schedule)
	cfg.Log.Level = getEnv("CRIMETALK_LOG_LEVEL", cfg.Log.Level)

	log := logging.New(cfg.Log.Level)
	if err != nil {
		log.Warn("failed to load config file, using defaults", "error", err)
	}

	// Create settings store
	settingsStore, err := config.NewSettingsStore(cfg.Storage.DSN)
	if err != nil {
		log.Error("failed to create settings store", "error", err)
		os.Exit(1)
	}
	defer settingsStore.Close()

	// Create snapshot store
	snapshotStore, err := cache.NewSnapshotStore(cfg.Storage.DSN)
	if err != nil {
		log.Error("failed to create snapshot store", "error", err)
		os.Exit(1)
	}
	defer snapshotStore.Close()

	sc := scraper.NewScraper(
		scraper.WithLogger(log),
		scraper.WithBaseURL(cfg.Site.BaseURL),
		scraper.WithUserAgent(cfg.Site.UserAgent),
		scraper.WithSearchConcurrency(cfg.Search.Concurrency),
	)

	var conn crimetalk.Connectivity
	if dialer, err := crimetalk.NewDialChecker(sc.BaseURL()); err == nil {
		conn = dialer
	}

	ld := loader.New(sc, settingsStore, snapshotStore, log)
	reader := crimetalk.NewReader(catalog.Default(), settingsStore, sc, ld, conn, log)

	// Create router with CORS middleware
	router := gin.Default()
	router.Use(crimetalk.CORSMiddleware())

	// Mount reader and settings API routes
	api := router.Group("/api/v1")
	crimetalk.NewReaderAPIServer(reader).RegisterRoutes(api)
	config.NewSettingsAPIServer(settingsStore).RegisterRoutes(api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Keep listings warm in the background
	warmerDone := make(chan struct{})
	if cfg.Refresh.Schedule != config.RefreshOff {
		warmer := loader.NewWarmer(ld, catalog.Default().Sources(), cfg.Refresh.Schedule, log)
		go func() {
			defer close(warmerDone)
			if err := warmer.Run(ctx); err != nil {
				log.Error("listing warmer stopped", "error", err)
			}
		}()
	} else {
		close(warmerDone)
	}

	server := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: router,
	}

	go func() {
		log.Info("starting reader API server", "url", "http://"+cfg.API.Addr+"/api/v1")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	<-warmerDone
}
