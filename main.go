package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"salesdeck/config"
	"salesdeck/logger"
	"salesdeck/store"
)

func main() {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	appLog := logger.NewLogger()
	if cfg.LogDir != "" {
		if err := appLog.Init(cfg.LogDir); err != nil {
			log.Printf("file logging unavailable, using stderr: %v", err)
		}
	}
	defer appLog.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("failed to create upload directory %s: %v", cfg.UploadDir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files := store.New(cfg.FileLifetime, appLog)
	files.StartCleanup(ctx, cfg.CleanupInterval)

	srv := NewServer(cfg, appLog, files)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLog.Log("Shutting down server...")
		cancel()
		httpServer.Shutdown(context.Background())
	}()

	appLog.Logf("Sales Deck Generator listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
	appLog.Log("Server stopped")
}
