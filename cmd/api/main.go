package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/catalog-browser/internal/api"
	"github.com/example/catalog-browser/internal/app"
	"github.com/example/catalog-browser/internal/auth"
	"github.com/example/catalog-browser/internal/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}
	if err := cfg.ValidateSessionSecret(); err != nil {
		log.Fatalf("[API] %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Catalog Browser")
	log.Println("[API] ========================================")

	a, err := app.Build(ctx, cfg, app.Options{Publish: true})
	if err != nil {
		log.Fatalf("[API] %v", err)
	}
	defer a.Close()

	// Restore sessions recorded before the last restart
	n, err := a.Projector.RebuildAll(ctx)
	if err != nil {
		log.Printf("[API] Session restore stopped early: %v", err)
	}
	log.Printf("[API] Restored %d sessions from the event log", n)

	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL)

	router := api.NewRouter(api.RouterConfig{
		Handlers:        api.NewHandlers(a.Commands, a.Queries),
		SessionHandlers: api.NewSessionHandlers(a.Commands, jwtService),
		StreamHandler:   api.NewStreamHandler(a.Queries),
		JWTService:      jwtService,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}
