package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/skyphotography/wedding-portal-backend/config"
	"github.com/skyphotography/wedding-portal-backend/internal/bootstrap"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer app.Close()

	if cfg.DemoMode() {
		log.Println("DB_DSN or FIREBASE_CREDENTIALS_PATH not configured, running in demo mode")
	}

	if app.Dispatcher != nil {
		if err := app.Dispatcher.Start(); err != nil {
			log.Fatalf("failed to start email dispatcher: %v", err)
		}
		defer app.Dispatcher.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("wedding portal listening on %s (mode=%s)", srv.Addr, cfg.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	// pending autosaves are written before the backend goes away
	app.Forms.FlushAll(shutdownCtx)
}
