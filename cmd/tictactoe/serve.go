package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	gin.SetMode(cfg.HTTP.Mode)

	// Create the session store
	var (
		rdb  *redis.Client
		repo repository.SessionRepository
	)
	switch cfg.Store.Driver {
	case config.StoreRedis:
		rdb, err = db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()
		repo = repository.NewRedisSessionRepository(rdb, repository.WithTTL(cfg.Store.SessionTTL))
	default:
		repo = repository.NewMemorySessionRepository(repository.WithTTL(cfg.Store.SessionTTL))
	}

	// Create hub
	h := hub.NewHub(rdb)
	if err := h.Start(ctx); err != nil {
		return err
	}

	// Create services
	games, err := service.NewGameService(repo, h)
	if err != nil {
		return err
	}
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	srv := server.NewServer(h, games, tokens)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "http.addr", cfg.HTTP.Addr, "store.driver", cfg.Store.Driver)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}
