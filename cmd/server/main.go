package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ine-ocr-server/internal/config"
	"ine-ocr-server/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()
	cfg := container.Config

	// Handlers
	extractionHandler := handler.NewExtractionHandler(
		container.ExtractionService,
		container.Logger,
		cfg.GetMaxFileSize(),
	)

	authHandler := handler.NewAuthHandler()

	authMiddleware := handler.NewAuthMiddleware(
		container.AuthService,
		container.Logger,
		cfg.GetAllowGuest(),
	)

	// Router
	router := handler.NewRouter(
		authHandler,
		extractionHandler,
		authMiddleware.Middleware,
		cfg.GetCORSAllowedOrigins(),
	)

	// Writes cover the OCR round trip.
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.GetOCRTimeout() + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening",
			"address", server.Addr,
			"ocr_provider", cfg.GetOCRProvider(),
			"guests", cfg.GetAllowGuest(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}
