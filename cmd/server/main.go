package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/fairy-farm/config"
	"github.com/user/fairy-farm/internal/content"
	"github.com/user/fairy-farm/internal/feed"
	"github.com/user/fairy-farm/internal/game"
	"github.com/user/fairy-farm/internal/interfaces"
	"github.com/user/fairy-farm/internal/metrics"
	"github.com/user/fairy-farm/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	reset := flag.Bool("reset", false, "Delete the saved game and start a new one")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Load content tables
	tables, err := loadTables(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load game data", zap.Error(err))
	}

	// Open the save store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open game store", zap.Error(err))
	}
	defer closeStore()

	if *reset {
		if err := resetStore(store); err != nil {
			logger.Fatal("Failed to reset saved game", zap.Error(err))
		}
		logger.Info("Saved game deleted", zap.String("driver", cfg.Storage.Driver))
	}

	// Initialize game manager
	gameManager, err := game.NewGameManager(cfg, tables, store, game.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to start game", zap.Error(err))
	}

	tickInterval := time.Duration(cfg.Game.TickInterval) * time.Millisecond

	// Status feed for websocket watchers
	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	hub := feed.NewHub(logger)
	go hub.Run(feedCtx)
	hub.StartStatusPoller(feedCtx, gameManager, tickInterval)

	// Set up HTTP server for health, metrics and state
	server := setupHTTPServer(cfg, gameManager, store, hub, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Start the tick system after everything else is initialized
	tickSystem := game.NewTickSystem(gameManager, tickInterval,
		time.Duration(cfg.Game.OrderRefreshInterval)*time.Second)
	tickSystem.Start()
	defer tickSystem.Stop()

	// Wait for shutdown signal
	waitForShutdown(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func loadTables(cfg config.Config, logger *zap.Logger) (*content.Tables, error) {
	dataLoader := content.EmbeddedLoader()
	source := "embedded"
	if cfg.Content.Dir != "" {
		dataLoader = content.NewDirLoader(cfg.Content.Dir)
		source = cfg.Content.Dir
	}

	tables, err := dataLoader.Load()
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded game data",
		zap.String("source", source),
		zap.Int("items", len(tables.Items())),
		zap.Int("buffs", tables.Buffs.Len()),
		zap.Int("chapters", len(tables.Chapters())),
		zap.Int("npcs", len(tables.NPCIDs())))
	return tables, nil
}

func openStore(cfg config.Config) (interfaces.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Storage.Path, cfg.Storage.Slot,
			time.Duration(cfg.Storage.CacheTTL)*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "memory":
		return game.NewMemoryStore(), func() {}, nil
	default:
		return game.NewFileStore(cfg.Storage.Path), func() {}, nil
	}
}

// slotLister is a store holding several save slots
type slotLister interface {
	Slots() ([]storage.SlotInfo, error)
}

func resetStore(store interfaces.Store) error {
	r, ok := store.(interfaces.Resetter)
	if !ok {
		return nil
	}
	return r.Delete()
}

func setupHTTPServer(cfg config.Config, gameManager *game.GameManager, store interfaces.Store, hub *feed.Hub, logger *zap.Logger) *http.Server {
	// Create router
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(metrics.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Handle("/metrics", promhttp.Handler())

	// Read-only views of the game
	router.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gameManager.GetStatus(), logger)
	})

	router.Get("/state/full", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gameManager.Snapshot(), logger)
	})

	router.Get("/state/stream", hub.Handler())

	// Save slots, for stores that keep more than one
	router.Get("/saves", func(w http.ResponseWriter, r *http.Request) {
		lister, ok := store.(slotLister)
		if !ok {
			http.Error(w, "save slots are not supported by this store", http.StatusNotFound)
			return
		}
		slots, err := lister.Slots()
		if err != nil {
			logger.Error("Failed to list save slots", zap.Error(err))
			http.Error(w, "failed to list save slots", http.StatusInternalServerError)
			return
		}
		writeJSON(w, slots, logger)
	})

	// Create HTTP server
	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func writeJSON(w http.ResponseWriter, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	logger.Info("Shutting down")
}
