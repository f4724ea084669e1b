package main

import (
	"fmt"
	"os"

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

// loadConfig loads configuration with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.crimetalk/config.yaml)
// 3. Default values (lowest priority)
func loadConfig() config.FileConfig {
	fileCfg, err := config.LoadConfigFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
	}

	cfg := fileCfg.WithDefaults()
	cfg.Storage.DSN = getEnv("CRIMETALK_DB", cfg.Storage.DSN)
	cfg.Log.Level = getEnv("CRIMETALK_LOG_LEVEL", cfg.Log.Level)
	return cfg
}

// app holds the stores and services a command needs.
type app struct {
	cfg       config.FileConfig
	log       *logging.Logger
	settings  *config.SettingsStore
	snapshots *cache.SnapshotStore
	scraper   *scraper.Scraper
	reader    *crimetalk.Reader
}

// openApp opens the stores and wires the reader. Errors are fatal.
func openApp() *app {
	cfg := loadConfig()
	log := logging.New(cfg.Log.Level)

	settingsStore, err := config.NewSettingsStore(cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open settings store: %v\n", err)
		os.Exit(1)
	}

	snapshotStore, err := cache.NewSnapshotStore(cfg.Storage.DSN)
	if err != nil {
		settingsStore.Close()
		fmt.Fprintf(os.Stderr, "Error: failed to open snapshot store: %v\n", err)
		os.Exit(1)
	}

	sc := newScraper(cfg, log)

	var conn crimetalk.Connectivity
	if dialer, err := crimetalk.NewDialChecker(sc.BaseURL()); err == nil {
		conn = dialer
	}

	ld := loader.New(sc, settingsStore, snapshotStore, log)
	reader := crimetalk.NewReader(catalog.Default(), settingsStore, sc, ld, conn, log)

	return &app{
		cfg:       cfg,
		log:       log,
		settings:  settingsStore,
		snapshots: snapshotStore,
		scraper:   sc,
		reader:    reader,
	}
}

// newScraper builds a scraper from the site and search settings. Unset
// values keep the scraper defaults.
func newScraper(cfg config.FileConfig, log *logging.Logger) *scraper.Scraper {
	return scraper.NewScraper(
		scraper.WithLogger(log),
		scraper.WithBaseURL(cfg.Site.BaseURL),
		scraper.WithUserAgent(cfg.Site.UserAgent),
		scraper.WithSearchConcurrency(cfg.Search.Concurrency),
	)
}

func (a *app) Close() {
	a.snapshots.Close()
	a.settings.Close()
}

// openSettingsStore opens only the settings store.
func openSettingsStore() *config.SettingsStore {
	cfg := loadConfig()
	store, err := config.NewSettingsStore(cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open settings store: %v\n", err)
		os.Exit(1)
	}
	return store
}

// openSnapshotStore opens only the snapshot store.
func openSnapshotStore() *cache.SnapshotStore {
	cfg := loadConfig()
	store, err := cache.NewSnapshotStore(cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open snapshot store: %v\n", err)
		os.Exit(1)
	}
	return store
}
