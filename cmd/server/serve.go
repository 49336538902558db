package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shelfscope/internal/config"
	"shelfscope/internal/handler"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, cmd *cli.Command) error {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if port := cmd.String("port"); port != "" {
		cfg.ServerPort = port
	}

	// Wiring
	container := config.NewContainer(cfg)
	logger := container.Logger
	if envErr != nil {
		logger.Debug(".env file not loaded", "error", envErr.Error())
	}

	if err := container.SupabaseClient.Initialize(); err != nil {
		logger.Warn("Supabase unavailable, library routes will fail", "error", err.Error())
	}

	authMiddleware := handler.NewAuthMiddleware(container.AuthService, logger)
	relayLimiter := handler.NewRateLimiter(
		cfg.GetRelayRateLimit(),
		cfg.GetRelayRateBurst(),
		logger,
		handler.TrustProxyHeaders(cfg.GetRelayTrustProxyHeaders()),
	)

	// Router
	router := handler.NewRouter(handler.Routes{
		Auth:       handler.NewAuthHandler(container.LibraryService, logger),
		Books:      handler.NewBookHandler(container.BookService, logger),
		Audiobooks: handler.NewAudiobookHandler(container.AudiobookService, logger),
		Library: handler.NewLibraryHandler(
			container.LibraryService,
			container.BookService,
			container.AudiobookService,
			logger,
		),
		Relay:          container.Relay,
		RelayLimiter:   relayLimiter,
		AuthMiddleware: authMiddleware.Middleware,
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to start", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	logger.Info("Server exited")
	return nil
}
