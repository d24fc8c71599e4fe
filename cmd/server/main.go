package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/IMMINJU/mario-chat/internal/api"
	"github.com/IMMINJU/mario-chat/internal/config"
	"github.com/IMMINJU/mario-chat/internal/hub"
	"github.com/IMMINJU/mario-chat/internal/models"
	"github.com/IMMINJU/mario-chat/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()
	rooms := models.SeedRooms()

	// Initialize the message store: Redis when configured, in-memory
	// otherwise.
	var msgStore store.MessageStore
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL, rooms, cfg.RoomLogCapacity)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		msgStore = redisStore
		logger.Info().Msg("connected to Redis")
	} else {
		msgStore = store.NewMemoryStore(rooms, cfg.RoomLogCapacity)
		logger.Info().Msg("using in-memory message store")
	}
	defer msgStore.Close()

	// Create the broadcast hub
	chatHub := hub.New(hub.Config{
		HistoryLimit:   cfg.HistoryLimit,
		MaxConnections: cfg.MaxConnections,
		TypingTimeout:  cfg.TypingTimeout,
	}, msgStore, logger)
	defer chatHub.Shutdown()

	// Create router
	router := api.NewRouter(cfg, logger, chatHub, msgStore)

	// Create server
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Int("rooms", len(rooms)).
			Msg("starting chat server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
